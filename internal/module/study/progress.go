package study

import (
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"context"
	"path"
	"strings"

	"gorm.io/gorm"
)

type ProgressInput struct {
	Title        string `json:"title" binding:"required"`
	Content      string `json:"content"`
	WeekNo       *int   `json:"week_no"`
	ProgressDate string `json:"progress_date"` // YYYY-MM-DD，可以为空
}

// AddProgress 新增一条进度，周次和日期都可以不填
func AddProgress(ctx context.Context, db *gorm.DB, actor model.Actor, studyID uint, in ProgressInput) (*model.Progress, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, response.ErrInvalidRequest.WithTips("标题不能为空")
	}
	date, err := tools.ParseDate(in.ProgressDate)
	if err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}

	db = db.WithContext(ctx)
	if _, err := getStudy(db, studyID); err != nil {
		return nil, err
	}
	if err := canManage(db, actor, studyID); err != nil {
		return nil, err
	}

	p := &model.Progress{
		StudyID:      studyID,
		Title:        in.Title,
		Content:      in.Content,
		WeekNo:       in.WeekNo,
		ProgressDate: date,
	}
	if err := db.Create(p).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return p, nil
}

func ListProgress(ctx context.Context, db *gorm.DB, studyID uint) ([]model.Progress, error) {
	db = db.WithContext(ctx)
	if _, err := getStudy(db, studyID); err != nil {
		return nil, err
	}
	var list []model.Progress
	if err := db.Where("study_id = ?", studyID).Order("week_no, id").Find(&list).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return list, nil
}

// DeleteProgress 删除进度，挂在它下面的资料回到小组层级
func DeleteProgress(ctx context.Context, db *gorm.DB, actor model.Actor, studyID, progressID uint) error {
	db = db.WithContext(ctx)
	if err := canManage(db, actor, studyID); err != nil {
		return err
	}
	result := db.Where("id = ? AND study_id = ?", progressID, studyID).Delete(&model.Progress{})
	if result.Error != nil {
		return response.FromDB(result.Error, response.ErrHasDependents)
	}
	if result.RowsAffected == 0 {
		return response.ErrNotFound
	}
	return nil
}

type ResourceInput struct {
	ProgressID *uint  `json:"progress_id"`
	Name       string `json:"name" binding:"required"`
	Format     string `json:"format"`
	DirPath    string `json:"dir_path" binding:"required"` // 上传接口返回的 file_key
}

// AttachResource 添加学习资料，指定的进度必须属于同一个小组
func AttachResource(ctx context.Context, db *gorm.DB, actor model.Actor, studyID uint, in ResourceInput) (*model.Resource, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.DirPath = strings.TrimSpace(in.DirPath)
	if in.Name == "" || in.DirPath == "" {
		return nil, response.ErrInvalidRequest.WithTips("资料名称和路径不能为空")
	}
	if in.Format == "" {
		in.Format = strings.TrimPrefix(strings.ToLower(path.Ext(in.DirPath)), ".")
	}

	db = db.WithContext(ctx)
	if _, err := getStudy(db, studyID); err != nil {
		return nil, err
	}
	if err := canManage(db, actor, studyID); err != nil {
		return nil, err
	}
	if in.ProgressID != nil {
		var n int64
		err := db.Model(&model.Progress{}).Where("id = ? AND study_id = ?", *in.ProgressID, studyID).Count(&n).Error
		if err != nil {
			return nil, response.FromDB(err, nil)
		}
		if n == 0 {
			return nil, response.ErrInvalidRequest.WithTips("进度不属于该学习小组")
		}
	}

	r := &model.Resource{
		StudyID:    studyID,
		ProgressID: in.ProgressID,
		Name:       in.Name,
		Format:     in.Format,
		DirPath:    in.DirPath,
	}
	if err := db.Create(r).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return r, nil
}

// ListResources progressID 为 nil 时返回整个小组的资料
func ListResources(ctx context.Context, db *gorm.DB, studyID uint, progressID *uint) ([]model.Resource, error) {
	db = db.WithContext(ctx)
	if _, err := getStudy(db, studyID); err != nil {
		return nil, err
	}
	q := db.Where("study_id = ?", studyID)
	if progressID != nil {
		q = q.Where("progress_id = ?", *progressID)
	}
	var list []model.Resource
	if err := q.Order("id").Find(&list).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return list, nil
}

// DeleteResource 软删除
func DeleteResource(ctx context.Context, db *gorm.DB, actor model.Actor, studyID, resourceID uint) error {
	db = db.WithContext(ctx)
	if err := canManage(db, actor, studyID); err != nil {
		return err
	}
	result := db.Where("id = ? AND study_id = ?", resourceID, studyID).Delete(&model.Resource{})
	if result.Error != nil {
		return response.FromDB(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return response.ErrNotFound
	}
	return nil
}
