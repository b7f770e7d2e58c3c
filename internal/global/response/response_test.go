package response

import (
	"club-management-system/config"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestErrorIs(t *testing.T) {
	assert.ErrorIs(t, ErrRoleFull, ErrConflict)
	assert.ErrorIs(t, ErrRoleFull.WithTips("backend"), ErrRoleFull)
	assert.ErrorIs(t, ErrApplicationClosed, ErrForbidden)
	assert.NotErrorIs(t, ErrConflict, ErrRoleFull)
	assert.NotErrorIs(t, ErrRoleFull, ErrStudyFull)
	assert.NotErrorIs(t, ErrNotFound, ErrConflict)

	wrapped := fmt.Errorf("join: %w", ErrTeamClosed)
	assert.ErrorIs(t, wrapped, ErrConflict)
	assert.Equal(t, http.StatusConflict, As(wrapped).HTTPStatus())
}

func TestWithOriginAndTips(t *testing.T) {
	cause := errors.New("boom")
	e := ErrDatabase.WithOrigin(cause).WithTips("写入失败")
	assert.Equal(t, "数据库错误：写入失败", e.Message)
	assert.ErrorIs(t, e, cause)
	assert.NotNil(t, e.StackTrace())
	assert.Contains(t, e.Origin, "boom")

	assert.Same(t, ErrDatabase, ErrDatabase.WithOrigin(nil))
	assert.Equal(t, ErrNotFound.Message, ErrNotFound.WithTips("").Message)
	// 原错误不受影响
	assert.Equal(t, "数据库错误", ErrDatabase.Message)
}

func TestAs(t *testing.T) {
	assert.Same(t, ErrNotFound, As(ErrNotFound))
	e := As(errors.New("unexpected"))
	assert.ErrorIs(t, e, ErrServerInternal)
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus())
}

func TestFromDB(t *testing.T) {
	tests := []struct {
		name string
		err  error
		fk   *Error
		want *Error
	}{
		{"未找到", gorm.ErrRecordNotFound, nil, ErrNotFound},
		{"唯一键冲突", gorm.ErrDuplicatedKey, nil, ErrConflict},
		{"外键默认按引用不存在处理", gorm.ErrForeignKeyViolated, nil, ErrNotFound},
		{"删除时外键冲突", gorm.ErrForeignKeyViolated, ErrHasDependents, ErrHasDependents},
		{"检查约束", gorm.ErrCheckConstraintViolated, nil, ErrInvalidRequest},
		{"其他错误", errors.New("connection reset"), nil, ErrDatabase},
		{"已经是业务错误", ErrStudyFull, nil, ErrStudyFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDB(tt.err, tt.fk)
			assert.Equal(t, tt.want.Code, As(got).Code)
		})
	}
	assert.NoError(t, FromDB(nil, nil))
}

func TestFail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{Mode: config.ModeRelease})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Fail(c, ErrRoleFull.WithOrigin(errors.New("secret detail")))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, c.IsAborted())
	var body ResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int32(40902), body.Code)
	assert.Empty(t, body.Origin)

	config.Set(&config.Config{Mode: config.ModeDebug})
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Fail(c, ErrRoleFull.WithOrigin(errors.New("secret detail")))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Origin, "secret detail")
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{Mode: config.ModeRelease})
	r := gin.New()
	var got uint
	r.GET("/x/:id", func(c *gin.Context) {
		id, ok := ParamID(c, "id")
		if !ok {
			return
		}
		got = id
		Success(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 42, got)

	for _, bad := range []string{"abc", "0", "-1"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/"+bad, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}
