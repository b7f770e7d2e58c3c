package upload

import (
	"club-management-system/config"
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/storage"
	"log/slog"
)

var log = slog.Default()

// ModuleUpload 配置了 S3 时走预签名直传，否则保存到本地目录
type ModuleUpload struct {
	local *storage.Local
	s3    *storage.S3
}

func (u *ModuleUpload) GetName() string {
	return "Upload"
}

func (u *ModuleUpload) Init() {
	log = logger.New("Upload")
	cfg := config.Get()
	u.local = storage.NewLocal(cfg.Storage.Home, cfg.Storage.BaseURL)
	u.s3 = storage.NewS3(cfg.S3)
	if u.s3.Configured() {
		log.Info("使用对象存储", "bucket", cfg.S3.Bucket)
	} else {
		log.Info("未配置对象存储，使用本地目录", "home", cfg.Storage.Home)
	}
}
