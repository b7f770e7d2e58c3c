package upload

import (
	"bytes"
	"club-management-system/config"
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/response"
	"club-management-system/internal/global/storage"
	"club-management-system/internal/global/testutil"
	"club-management-system/internal/model"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *config.Config) {
	cfg := testutil.UseConfig(t)
	m := &ModuleUpload{}
	m.Init()
	r := gin.New()
	m.InitRouter(r.Group("/api"))
	return r, cfg
}

func token(t *testing.T) string {
	tk, err := jwt.CreateToken(jwt.Payload{UserID: uuid.New(), Role: model.RoleGuest})
	require.NoError(t, err)
	return tk
}

func multipartRequest(t *testing.T, tk, category, filename string, content []byte) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("category", category))
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/file", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if tk != "" {
		req.Header.Set("Authorization", "Bearer "+tk)
	}
	return req
}

func do(t *testing.T, r http.Handler, req *http.Request) response.ResponseBody {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp response.ResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLocalUpload(t *testing.T) {
	r, cfg := newRouter(t)
	tk := token(t)

	resp := do(t, r, multipartRequest(t, tk, "avatar", "me.PNG", []byte("fake png")))
	testutil.NoError(t, resp)
	var res Result
	testutil.DecodeData(t, resp, &res)
	assert.True(t, strings.HasPrefix(res.Key, "avatar/"))
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, strings.TrimRight(cfg.Storage.BaseURL, "/")+"/"+res.Key, res.URL)

	saved, err := os.ReadFile(filepath.Join(cfg.Storage.Home, filepath.FromSlash(res.Key)))
	require.NoError(t, err)
	assert.Equal(t, "fake png", string(saved))

	t.Run("获取访问地址", func(t *testing.T) {
		_, resp := testutil.Serve(t, r, http.MethodGet, "/api/upload/url?key="+res.Key, tk, nil)
		testutil.NoError(t, resp)
		var got struct {
			URL string `json:"url"`
		}
		testutil.DecodeData(t, resp, &got)
		assert.Equal(t, res.URL, got.URL)

		_, resp = testutil.Serve(t, r, http.MethodGet, "/api/upload/url?key=../config.yaml", tk, nil)
		testutil.ErrorCode(t, response.ErrInvalidRequest, resp)
	})

	t.Run("资料不限制扩展名", func(t *testing.T) {
		resp := do(t, r, multipartRequest(t, tk, "resource", "week1.pdf", []byte("%PDF")))
		testutil.NoError(t, resp)
	})

	t.Run("头像只接受图片", func(t *testing.T) {
		resp := do(t, r, multipartRequest(t, tk, "avatar", "run.sh", []byte("echo")))
		testutil.ErrorCode(t, response.ErrInvalidRequest, resp)
	})

	t.Run("未知用途", func(t *testing.T) {
		resp := do(t, r, multipartRequest(t, tk, "misc", "a.png", []byte("x")))
		testutil.ErrorCode(t, response.ErrInvalidRequest, resp)
	})

	t.Run("未登录", func(t *testing.T) {
		resp := do(t, r, multipartRequest(t, "", "avatar", "a.png", []byte("x")))
		testutil.ErrorCode(t, response.ErrTokenInvalid, resp)
	})
}

func TestPresignWithoutS3(t *testing.T) {
	r, _ := newRouter(t)
	_, resp := testutil.Serve(t, r, http.MethodPost, "/api/upload/presign", token(t), PresignInput{
		Filename: "cover.jpg",
		Category: storage.CategoryProject,
	})
	testutil.ErrorCode(t, response.ErrInvalidRequest, resp)
}

func TestPresignUpload(t *testing.T) {
	s3 := storage.NewS3(config.S3{
		Endpoint:        "http://127.0.0.1:9000",
		Bucket:          "club",
		Region:          "us-east-1",
		AccessKey:       "minio",
		SecretAccessKey: "minio-secret",
		Prefix:          "club",
		UsePathStyle:    true,
	})

	resp, err := PresignUpload(context.Background(), s3, PresignInput{
		Filename:    "cover.jpg",
		ContentType: "image/jpeg",
		Category:    storage.CategoryProject,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.FileKey, "club/project/"))
	assert.Contains(t, resp.UploadURL, "http://127.0.0.1:9000/club/"+resp.FileKey)
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature=")
	assert.Equal(t, http.MethodPut, resp.Method)
	assert.Equal(t, "image/jpeg", resp.Headers["Content-Type"])
	assert.Equal(t, "http://127.0.0.1:9000/club/"+resp.FileKey, resp.FileURL)

	url, err := DownloadURL(context.Background(), s3, nil, resp.FileKey)
	require.NoError(t, err)
	assert.Contains(t, url, resp.FileKey)
	assert.Contains(t, url, "X-Amz-Expires=3600")

	_, err = PresignUpload(context.Background(), s3, PresignInput{Filename: "cover.exe", Category: storage.CategoryProject})
	require.ErrorIs(t, err, response.ErrInvalidRequest)
}
