package storage

import (
	"club-management-system/config"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategory(t *testing.T) {
	assert.True(t, CategoryAvatar.Valid())
	assert.False(t, Category("misc").Valid())

	assert.True(t, CategoryAvatar.AllowExt(".JPG"))
	assert.False(t, CategoryProject.AllowExt(".pdf"))
	assert.False(t, CategoryAvatar.AllowExt(""))
	assert.True(t, CategoryResource.AllowExt(".pdf"))
	assert.True(t, CategoryResource.AllowExt(""))
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.Local)

	key := ObjectKey("/club/", CategoryAvatar, "Me.PNG", now)
	assert.True(t, strings.HasPrefix(key, "club/avatar/202509/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	key = ObjectKey("", CategoryResource, "notes", now)
	assert.True(t, strings.HasPrefix(key, "resource/202509/"), key)
	assert.NotContains(t, key, ".")

	assert.NotEqual(t, ObjectKey("", CategoryAvatar, "a.png", now), ObjectKey("", CategoryAvatar, "a.png", now))
}

func TestFileURL(t *testing.T) {
	s := NewS3(config.S3{Endpoint: "https://oss.example.com/", Bucket: "club", UsePathStyle: true})
	assert.True(t, s.Configured())
	assert.Equal(t, "https://oss.example.com/club/a.png", s.FileURL("a.png"))

	s = NewS3(config.S3{Endpoint: "https://oss.example.com", BaseURL: "https://cdn.example.com/", Bucket: "club"})
	assert.Equal(t, "https://cdn.example.com/a.png", s.FileURL("a.png"))

	var nilS3 *S3
	assert.False(t, nilS3.Configured())
	assert.False(t, NewS3(config.S3{}).Configured())
}
