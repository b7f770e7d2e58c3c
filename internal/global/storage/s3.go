package storage

import (
	"club-management-system/config"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignedUploadRequest 预签名上传请求参数
type PresignedUploadRequest struct {
	Filename    string   // 原始文件名
	ContentType string   // 文件 MIME 类型
	Category    Category // 文件用途
	ExpiresIn   int64    // 过期时间（秒），默认 15 分钟
}

// PresignedUploadResponse 预签名上传响应
type PresignedUploadResponse struct {
	UploadURL string            `json:"upload_url"` // 预签名上传 URL
	FileKey   string            `json:"file_key"`   // 对象存储中的文件 key，业务表里保存的就是它
	FileURL   string            `json:"file_url"`   // 上传成功后的访问 URL
	ExpiresAt time.Time         `json:"expires_at"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"` // 需要在上传时携带的 Headers
}

// S3 兼容 S3 协议的对象存储，前端拿到预签名 URL 后直传
type S3 struct {
	cfg config.S3

	once     sync.Once
	initErr  error
	s3Client *s3.Client
}

func NewS3(cfg config.S3) *S3 {
	return &S3{cfg: cfg}
}

// Configured 是否配置了 bucket，未配置时上传走本地存储
func (b *S3) Configured() bool {
	return b != nil && b.cfg.Bucket != ""
}

func (b *S3) client(ctx context.Context) (*s3.Client, error) {
	b.once.Do(func() {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(b.cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(b.cfg.AccessKey, b.cfg.SecretAccessKey, "")),
		)
		if err != nil {
			b.initErr = fmt.Errorf("初始化 S3 客户端失败: %w", err)
			return
		}
		b.s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if b.cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(b.cfg.Endpoint)
			}
			o.UsePathStyle = b.cfg.UsePathStyle
		})
	})
	return b.s3Client, b.initErr
}

// PresignUpload 生成预签名 PUT URL
func (b *S3) PresignUpload(ctx context.Context, req PresignedUploadRequest) (*PresignedUploadResponse, error) {
	if !b.Configured() {
		return nil, fmt.Errorf("S3 bucket 未配置")
	}
	if req.Filename == "" {
		return nil, fmt.Errorf("文件名不能为空")
	}
	client, err := b.client(ctx)
	if err != nil {
		return nil, err
	}

	if req.ExpiresIn <= 0 {
		req.ExpiresIn = 900
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := ObjectKey(b.cfg.Prefix, req.Category, req.Filename, time.Now())
	expires := time.Duration(req.ExpiresIn) * time.Second

	presigned, err := s3.NewPresignClient(client).PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, fmt.Errorf("生成预签名 URL 失败: %w", err)
	}

	resp := &PresignedUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   key,
		FileURL:   b.FileURL(key),
		ExpiresAt: time.Now().Add(expires),
		Method:    presigned.Method,
		Headers:   map[string]string{"Content-Type": contentType},
	}
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			resp.Headers[k] = v[0]
		}
	}
	return resp, nil
}

// PresignDownload 私有 bucket 下的临时访问地址
func (b *S3) PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	client, err := b.client(ctx)
	if err != nil {
		return "", err
	}
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	presigned, err := s3.NewPresignClient(client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", fmt.Errorf("生成预签名下载 URL 失败: %w", err)
	}
	return presigned.URL, nil
}

// FileURL 公共读 bucket 下的访问地址
func (b *S3) FileURL(key string) string {
	base := strings.TrimRight(b.cfg.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(b.cfg.Endpoint, "/")
	}
	if b.cfg.UsePathStyle {
		return base + "/" + b.cfg.Bucket + "/" + key
	}
	return base + "/" + key
}
