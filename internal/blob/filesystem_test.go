package blob

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStore(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *FilesystemStore {
		t.Helper()
		store, err := NewFilesystemStore(filepath.Join(t.TempDir(), "blobs"))
		require.NoError(t, err)
		return store
	}

	t.Run("写入后可读取", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "att/abc123.pdf", "application/pdf", []byte("content")))

		got, err := store.Get(ctx, "att/abc123.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("content"), got)
	})

	t.Run("重复写入同一键为幂等", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "att/k", "", []byte("v1")))
		require.NoError(t, store.Put(ctx, "att/k", "", []byte("v1")))

		got, err := store.Get(ctx, "att/k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)
	})

	t.Run("读取缺失对象返回 ErrObjectNotFound", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(ctx, "att/missing")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("删除对象幂等", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, "att/k", "", []byte("v")))
		require.NoError(t, store.Delete(ctx, "att/k"))
		require.NoError(t, store.Delete(ctx, "att/k"))

		_, err := store.Get(ctx, "att/k")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("拒绝越界键", func(t *testing.T) {
		store := newStore(t)
		assert.Error(t, store.Put(ctx, "", "", []byte("v")))
		// 上跳路径在归一化后落回根目录内，不会越界写入
		require.NoError(t, store.Put(ctx, "../escape", "", []byte("v")))
		got, err := store.Get(ctx, "escape")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("后端为空时返回 nil 存储", func(t *testing.T) {
		store, err := NewFromConfig(ctx, Config{})
		require.NoError(t, err)
		assert.Nil(t, store)
	})

	t.Run("filesystem 后端返回文件系统存储", func(t *testing.T) {
		store, err := NewFromConfig(ctx, Config{Backend: "filesystem", FSRoot: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &FilesystemStore{}, store)
	})

	t.Run("未知后端返回错误", func(t *testing.T) {
		_, err := NewFromConfig(ctx, Config{Backend: "ftp"})
		assert.Error(t, err)
	})
}
