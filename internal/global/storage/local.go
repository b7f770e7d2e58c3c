package storage

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Local 把文件保存到本地目录，未配置 S3 时使用
type Local struct {
	SaveDir string // 文件保存目录
	BaseURL string // 文件访问基础URL
}

func NewLocal(saveDir, baseURL string) *Local {
	return &Local{
		SaveDir: saveDir,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Save 保存上传的文件，返回相对 key 和访问 URL
func (l *Local) Save(fileHeader *multipart.FileHeader, c Category) (key string, url string, err error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	key = ObjectKey("", c, fileHeader.Filename, time.Now())
	filePath := filepath.Join(l.SaveDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return "", "", err
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", "", err
	}
	return key, l.BaseURL + "/" + key, nil
}
