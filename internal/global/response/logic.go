package response

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrorContextKey 是用于在 gin.Context 中存储错误对象的键
const ErrorContextKey = "error"

// Error 业务错误
// Code 的格式为 HTTP 状态码 * 100 + 细分编号，细分编号为 0 的错误代表一整类错误
type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
	Origin  string `json:"origin,omitempty"`
	cause   error
	stack   pkgerrors.StackTrace
}

func newError(code int32, msg string) *Error {
	return &Error{
		Code:    code,
		Message: msg,
	}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("code:%d, msg:%s, origin:%v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("code:%d, msg:%s", e.Code, e.Message)
}

// GetCode 实现 sentry.CodedError
func (e *Error) GetCode() int32 {
	return e.Code
}

// HTTPStatus 返回对应的 HTTP 状态码
func (e *Error) HTTPStatus() int {
	return int(e.Code / 100)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) StackTrace() pkgerrors.StackTrace {
	if e.stack != nil {
		return e.stack
	}
	var st stackTracer
	if e.cause != nil && errors.As(e.cause, &st) {
		return st.StackTrace()
	}
	return nil
}

// Is 同码相等；目标为类别错误（细分编号为 0）时，同一 HTTP 状态的错误都视为相等
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	return t.Code%100 == 0 && e.Code/100 == t.Code/100
}

// WithOrigin 附带原始错误，Origin 仅在 debug 模式下返回给前端
func (e *Error) WithOrigin(err error) *Error {
	if err == nil {
		return e
	}
	wrapped := ensureStack(err)
	next := &Error{
		Code:    e.Code,
		Message: e.Message,
		Origin:  fmt.Sprintf("%+v", wrapped),
		cause:   wrapped,
	}
	var st stackTracer
	if errors.As(wrapped, &st) {
		next.stack = st.StackTrace()
	}
	return next
}

// WithTips 追加给前端的提示信息，release 模式下同样可见
func (e *Error) WithTips(details ...string) *Error {
	msg := e.Message
	for _, d := range details {
		if d != "" {
			msg += "：" + d
		}
	}
	return &Error{
		Code:    e.Code,
		Message: msg,
		Origin:  e.Origin,
		cause:   e.cause,
		stack:   e.stack,
	}
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

func ensureStack(err error) error {
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return pkgerrors.WithStack(err)
}
