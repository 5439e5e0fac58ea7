// Package blob 提供附件字节的对象存储：
// 生产环境使用 S3 兼容后端（含 Cloudflare R2），
// 开发环境落本地文件系统。对象键由内容寻址产生。
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrObjectNotFound 对象不存在。
var ErrObjectNotFound = errors.New("blob object not found")

// Store 对象存储接口。
type Store interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Config 对象存储配置。Backend 为空时不启用对象存储，
// 附件仅保留元数据。
type Config struct {
	Backend         string // "s3" / "r2" / "filesystem"，空为不启用
	FSRoot          string
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

// NewFromConfig 按配置创建对象存储后端；Backend 为空返回 (nil, nil)。
func NewFromConfig(ctx context.Context, cfg Config) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case "":
		return nil, nil
	case "filesystem", "fs", "local":
		return NewFilesystemStore(cfg.FSRoot)
	case "s3", "r2":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported blob backend: %s", backend)
	}
}
