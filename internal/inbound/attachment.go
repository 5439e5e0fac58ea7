package inbound

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"mailgate/backend/internal/domain"
)

// buildStorageKey 由内容摘要与扩展名派生内容寻址存储键。
// 字节相同的内容总是映射到同一个键。
func buildStorageKey(content []byte, ext string) string {
	sum := sha256.Sum256(content)
	return domain.AttachmentKeyPrefix + hex.EncodeToString(sum[:]) + ext
}

// fileExt 返回文件名的小写扩展名（含点），无扩展名时为空串。
func fileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// trimContentID 剥除 cid 两端的尖括号定界符。
func trimContentID(cid string) string {
	cid = strings.TrimPrefix(cid, "<")
	return strings.TrimSuffix(cid, ">")
}

// decodeFileData 解码附件条目的 base64 数据。
func decodeFileData(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	buf, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		// 部分中转服务省略填充
		buf, err = base64.RawStdEncoding.DecodeString(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode attachment data: %w", err)
	}
	return buf, nil
}

// extractAttachments 将载荷的附件与内嵌文件条目归一化为附件记录。
// 返回值 all 为全部附件（内嵌文件同时可下载，因此也在其中），
// embedded 仅含内嵌文件。重复条目各自产生独立记录，不做去重。
// 内嵌文件的存储键不携带文件名扩展。
func extractAttachments(payload *domain.InboundPayload) (all, embedded []*domain.Attachment, err error) {
	for _, part := range payload.Attachments {
		content, err := decodeFileData(part.Data)
		if err != nil {
			return nil, nil, err
		}
		filename := part.Filename
		if filename == "" {
			filename = domain.DefaultAttachmentName
		}
		mimeType := part.ContentType
		if mimeType == "" {
			mimeType = domain.DefaultContentType
		}
		all = append(all, &domain.Attachment{
			Key:      buildStorageKey(content, fileExt(part.Filename)),
			Filename: filename,
			MimeType: mimeType,
			Size:     int64(len(content)),
			Type:     domain.AttTypeAttachment,
			Content:  content,
		})
	}

	for _, part := range payload.EmbeddedFiles {
		content, err := decodeFileData(part.Data)
		if err != nil {
			return nil, nil, err
		}
		mimeType := part.ContentType
		if mimeType == "" {
			mimeType = domain.DefaultContentType
		}
		att := &domain.Attachment{
			Key:       buildStorageKey(content, ""),
			MimeType:  mimeType,
			Size:      int64(len(content)),
			Type:      domain.AttTypeEmbedded,
			ContentID: trimContentID(part.CID),
			Content:   content,
		}
		embedded = append(embedded, att)
		all = append(all, att)
	}

	return all, embedded, nil
}
