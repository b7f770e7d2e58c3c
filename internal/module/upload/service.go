package upload

import (
	"club-management-system/internal/global/response"
	"club-management-system/internal/global/storage"
	"context"
	"mime/multipart"
	"path"
	"strings"
	"time"
)

// MaxFileSize 本地上传的大小上限
const MaxFileSize = 20 << 20

type PresignInput struct {
	Filename    string           `json:"filename" binding:"required"`
	ContentType string           `json:"content_type"`
	Category    storage.Category `json:"category" binding:"required"`
}

// Result 上传结果，Key 写入业务表（头像、项目封面、资料路径）
type Result struct {
	Key string `json:"file_key"`
	URL string `json:"file_url"`
}

func checkFile(c storage.Category, filename string) error {
	if !c.Valid() {
		return response.ErrInvalidRequest.WithTips("未知的文件用途")
	}
	if !c.AllowExt(path.Ext(filename)) {
		return response.ErrInvalidRequest.WithTips("不支持的文件类型")
	}
	return nil
}

func PresignUpload(ctx context.Context, s3 *storage.S3, in PresignInput) (*storage.PresignedUploadResponse, error) {
	if err := checkFile(in.Category, in.Filename); err != nil {
		return nil, err
	}
	if !s3.Configured() {
		return nil, response.ErrInvalidRequest.WithTips("未配置对象存储，请直接上传文件")
	}
	resp, err := s3.PresignUpload(ctx, storage.PresignedUploadRequest{
		Filename:    in.Filename,
		ContentType: in.ContentType,
		Category:    in.Category,
	})
	if err != nil {
		return nil, response.ErrStorage.WithOrigin(err)
	}
	return resp, nil
}

func SaveFile(local *storage.Local, fh *multipart.FileHeader, c storage.Category) (*Result, error) {
	if err := checkFile(c, fh.Filename); err != nil {
		return nil, err
	}
	if fh.Size > MaxFileSize {
		return nil, response.ErrInvalidRequest.WithTips("文件不能超过 20MB")
	}
	key, url, err := local.Save(fh, c)
	if err != nil {
		return nil, response.ErrStorage.WithOrigin(err)
	}
	return &Result{Key: key, URL: url}, nil
}

// DownloadURL 对象存储返回一小时有效的预签名地址，本地存储直接拼接访问地址
func DownloadURL(ctx context.Context, s3 *storage.S3, local *storage.Local, key string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return "", response.ErrInvalidRequest.WithTips("文件 key 不合法")
	}
	if !s3.Configured() {
		return local.BaseURL + "/" + key, nil
	}
	url, err := s3.PresignDownload(ctx, key, time.Hour)
	if err != nil {
		return "", response.ErrStorage.WithOrigin(err)
	}
	return url, nil
}
