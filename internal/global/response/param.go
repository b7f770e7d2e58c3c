package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID 解析路径中的自增 id，失败时直接写入错误响应
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		Fail(c, ErrInvalidRequest.WithTips(name+" 格式错误"))
		return 0, false
	}
	return uint(id), true
}
