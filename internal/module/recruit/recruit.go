package recruit

import (
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/redis"
	"club-management-system/internal/global/response"
	"club-management-system/tools"
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// Submit 公开的简历提交接口
func Submit(c *gin.Context) {
	var req ResumeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	r, err := SubmitResume(c.Request.Context(), database.DB, redis.Client, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	go announceSubmission(context.WithoutCancel(c.Request.Context()), notifier, r)
	response.Success(c, r)
}

func List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := ListResumes(c.Request.Context(), database.DB, f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, page)
}

func Get(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	r, err := GetResume(c.Request.Context(), database.DB, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, r)
}

func Review(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	r, err := UpdateReviewStatus(c.Request.Context(), database.DB, jwt.GetActor(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, r)
}

func Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	if err := DeleteResume(c.Request.Context(), database.DB, jwt.GetActor(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

// Export 下载筛选后的简历
func Export(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	data, err := ExportResumes(c.Request.Context(), database.DB, f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	name := fmt.Sprintf("简历导出_%s.xlsx", time.Now().Format("20060102150405"))
	tools.SendBytes(c, data, name, tools.ExcelContentType)
}

func GetSettingsHandler(c *gin.Context) {
	s, err := GetSettings(c.Request.Context(), database.DB, redis.Client)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, s)
}

func UpdateSettingsHandler(c *gin.Context) {
	var req SettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	s, err := UpdateSettings(c.Request.Context(), database.DB, redis.Client, jwt.GetActor(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, s)
}

// SyncSettingsHandler 手动触发一次自动开关检查
func SyncSettingsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	changed, err := SyncSettings(ctx, database.DB, redis.Client, time.Now())
	if err != nil {
		response.Fail(c, err)
		return
	}
	s, err := GetSettings(ctx, database.DB, redis.Client)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"changed": changed, "settings": s})
}
