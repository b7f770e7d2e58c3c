package response

import (
	"club-management-system/config"
	"club-management-system/internal/global/sentry"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// ResponseBody 统一响应结构
type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Origin string `json:"origin,omitempty"`
	Data   any    `json:"data"`
}

const successCode int32 = 200

// Success 返回成功响应，data 可省略
func Success(c *gin.Context, data ...any) {
	body := ResponseBody{Code: successCode, Msg: "success"}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusOK, body)
}

// Fail 返回错误响应，非 *Error 类型的错误统一视为服务器内部错误
func Fail(c *gin.Context, err error) {
	e := As(err)
	_ = c.Error(e)
	c.Set(ErrorContextKey, e)

	if e.HTTPStatus() >= http.StatusInternalServerError {
		sentry.CaptureException(c, e)
	}

	body := ResponseBody{Code: e.Code, Msg: e.Message}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}
	c.AbortWithStatusJSON(e.HTTPStatus(), body)
}

// As 把任意错误转换为 *Error
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrServerInternal.WithOrigin(err)
}

// Recovery 捕获 panic 并返回 500，需要以 defer 的方式调用
func Recovery(c *gin.Context) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	slog.Error("panic recovered",
		"error", err,
		"path", c.Request.URL.Path,
		"stack", string(debug.Stack()))
	Fail(c, ErrServerInternal.WithOrigin(err))
}
