package testutil

import (
	"bytes"
	"club-management-system/internal/global/response"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// DoRequest 直接调用单个 handler
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, request any) (resp response.ResponseBody) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/test", jsonBody(t, request))
	c.Request.Header.Set("Content-Type", "application/json")
	handlerFunc(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

// Serve 通过完整路由发起请求，token 为空时不带 Authorization
func Serve(t *testing.T, r http.Handler, method, path, token string, request any) (*httptest.ResponseRecorder, response.ResponseBody) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, jsonBody(t, request))
	if request != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)

	var resp response.ResponseBody
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// DecodeData 把响应里的 data 解到 out
func DecodeData(t *testing.T, resp response.ResponseBody, out any) {
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func jsonBody(t *testing.T, request any) io.Reader {
	if request == nil {
		return http.NoBody
	}
	b, err := json.Marshal(request)
	require.NoError(t, err)
	return bytes.NewReader(b)
}
