package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category 上传文件的用途，决定对象 key 的目录
type Category string

const (
	CategoryAvatar   Category = "avatar"
	CategoryProject  Category = "project"
	CategoryResource Category = "resource"
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

func (c Category) Valid() bool {
	switch c {
	case CategoryAvatar, CategoryProject, CategoryResource:
		return true
	}
	return false
}

// AllowExt 头像和项目封面只接受图片，学习资料不限制
func (c Category) AllowExt(ext string) bool {
	if c == CategoryResource {
		return true
	}
	return imageExts[strings.ToLower(ext)]
}

// ObjectKey 生成 prefix/category/yyyymm/uuid.ext 形式的 key
func ObjectKey(prefix string, c Category, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	key := path.Join(strings.Trim(prefix, "/"), string(c), now.Format("200601"), fmt.Sprintf("%s%s", uuid.NewString(), ext))
	return strings.TrimLeft(key, "/")
}
