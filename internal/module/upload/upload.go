package upload

import (
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/response"
	"club-management-system/internal/global/storage"

	"github.com/gin-gonic/gin"
)

// Presign 返回预签名 PUT 地址，前端直传到对象存储
func (u *ModuleUpload) Presign(c *gin.Context) {
	var req PresignInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	resp, err := PresignUpload(c.Request.Context(), u.s3, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("生成上传地址", "key", resp.FileKey, "user_id", jwt.GetActor(c).UserID)
	response.Success(c, resp)
}

// File multipart 上传，表单字段 file 和 category
func (u *ModuleUpload) File(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("缺少文件"))
		return
	}
	res, err := SaveFile(u.local, fh, storage.Category(c.PostForm("category")))
	if err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("文件已保存", "key", res.Key, "size", fh.Size, "user_id", jwt.GetActor(c).UserID)
	response.Success(c, res)
}

// URL 根据 file_key 获取访问地址
func (u *ModuleUpload) URL(c *gin.Context) {
	url, err := DownloadURL(c.Request.Context(), u.s3, u.local, c.Query("key"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}
