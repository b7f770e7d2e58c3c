package recruit

import (
	"club-management-system/internal/global/metrics"
	"club-management-system/internal/global/notify"
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ProjectInput struct {
	Name         string `json:"name" binding:"required"`
	Contribution int    `json:"contribution"`
	Date         string `json:"date"`
	Description  string `json:"description"`
	TechStack    string `json:"tech_stack"`
}

type AwardInput struct {
	Name        string `json:"name" binding:"required"`
	Institution string `json:"institution"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// ResumeInput 简历及其项目和获奖经历
type ResumeInput struct {
	Name             string         `json:"name" binding:"required"`
	StudentNumber    string         `json:"student_number" binding:"required"`
	Major            string         `json:"major"`
	Phone            string         `json:"phone"`
	TechStack        string         `json:"tech_stack"`
	AreaOfInterest   string         `json:"area_of_interest"`
	SelfIntroduction string         `json:"self_introduction"`
	ClubExpectation  string         `json:"club_expectation"`
	SubmitYear       int            `json:"submit_year"` // 为 0 时取当前年份
	Projects         []ProjectInput `json:"projects" binding:"dive"`
	Awards           []AwardInput   `json:"awards" binding:"dive"`
}

func (in *ResumeInput) toModel(now time.Time) (*model.Resume, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.StudentNumber = strings.TrimSpace(in.StudentNumber)
	if in.Name == "" || in.StudentNumber == "" {
		return nil, fmt.Errorf("姓名和学号不能为空")
	}
	if in.SubmitYear == 0 {
		in.SubmitYear = now.Year()
	}

	r := &model.Resume{
		Name:             in.Name,
		StudentNumber:    in.StudentNumber,
		Major:            in.Major,
		Phone:            in.Phone,
		TechStack:        in.TechStack,
		AreaOfInterest:   in.AreaOfInterest,
		SelfIntroduction: in.SelfIntroduction,
		ClubExpectation:  in.ClubExpectation,
		SubmitYear:       in.SubmitYear,
		ReviewStatus:     model.ReviewPending,
		Projects:         make([]model.ResumeProject, 0, len(in.Projects)),
		Awards:           make([]model.ResumeAward, 0, len(in.Awards)),
	}
	for i, p := range in.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("第 %d 个项目缺少名称", i+1)
		}
		if p.Contribution < 0 || p.Contribution > 100 {
			return nil, fmt.Errorf("项目 %s 的贡献度必须在 0 到 100 之间", p.Name)
		}
		r.Projects = append(r.Projects, model.ResumeProject{
			Name:         strings.TrimSpace(p.Name),
			Contribution: p.Contribution,
			Date:         p.Date,
			Description:  p.Description,
			TechStack:    p.TechStack,
		})
	}
	for i, a := range in.Awards {
		if strings.TrimSpace(a.Name) == "" {
			return nil, fmt.Errorf("第 %d 个奖项缺少名称", i+1)
		}
		r.Awards = append(r.Awards, model.ResumeAward{
			Name:        strings.TrimSpace(a.Name),
			Institution: a.Institution,
			Date:        a.Date,
			Description: a.Description,
		})
	}
	return r, nil
}

// SubmitResume 招新关闭时拒绝提交，简历和子记录在同一事务里写入
func SubmitResume(ctx context.Context, db *gorm.DB, rdb *redis.Client, in ResumeInput) (*model.Resume, error) {
	r, err := in.toModel(time.Now())
	if err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}
	settings, err := GetSettings(ctx, db, rdb)
	if err != nil {
		return nil, err
	}
	if !settings.IsApplicationEnabled {
		return nil, response.ErrApplicationClosed
	}

	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	metrics.ResumesSubmitted.Inc()
	log.Info("收到新简历", "resume_id", r.ID, "student_number", r.StudentNumber, "projects", len(r.Projects), "awards", len(r.Awards))
	return r, nil
}

// announceSubmission 推送新简历通知，失败只记录日志
func announceSubmission(ctx context.Context, n *notify.Notifier, r *model.Resume) {
	if !n.Enabled() {
		return
	}
	err := n.ResumeSubmitted(ctx, notify.ResumeSubmitted{
		ResumeID:      r.ID,
		Name:          r.Name,
		StudentNumber: r.StudentNumber,
		SubmitYear:    r.SubmitYear,
		SubmittedAt:   r.CreatedAt,
	})
	if err != nil {
		metrics.NotifyFailures.Inc()
		log.Error("新简历通知发送失败", "error", err, "resume_id", r.ID)
	}
}

func GetResume(ctx context.Context, db *gorm.DB, id uint) (*model.Resume, error) {
	var r model.Resume
	err := db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Awards", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&r, id).Error
	if err != nil {
		return nil, response.FromDB(err, nil)
	}
	return &r, nil
}

type ListFilter struct {
	model.Page
	Year    int    `form:"year"`
	Status  string `form:"status"`
	Keyword string `form:"keyword"`
}

func (f ListFilter) apply(q *gorm.DB) (*gorm.DB, error) {
	if f.Year > 0 {
		q = q.Where("submit_year = ?", f.Year)
	}
	if f.Status != "" {
		status := model.ReviewStatus(strings.ToLower(f.Status))
		if !status.Valid() {
			return nil, response.ErrInvalidRequest.WithTips("未知的审核状态")
		}
		q = q.Where("review_status = ?", status)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("name LIKE ? OR student_number LIKE ? OR major LIKE ?", like, like, like)
	}
	return q, nil
}

func ListResumes(ctx context.Context, db *gorm.DB, f ListFilter) (model.PageResult[model.Resume], error) {
	page := f.Page.Normalize()
	q, err := f.apply(db.WithContext(ctx).Model(&model.Resume{}))
	if err != nil {
		return model.PageResult[model.Resume]{}, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return model.PageResult[model.Resume]{}, response.FromDB(err, nil)
	}
	var resumes []model.Resume
	if err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&resumes).Error; err != nil {
		return model.PageResult[model.Resume]{}, response.FromDB(err, nil)
	}
	return model.NewPageResult(resumes, total, page), nil
}

type ReviewInput struct {
	Status  model.ReviewStatus `json:"review_status" binding:"required"`
	Comment *string            `json:"review_comment"`
}

// UpdateReviewStatus 任意状态之间都可以切换
// 改回 pending 时清空 reviewed_at，其他状态记录审核时间
func UpdateReviewStatus(ctx context.Context, db *gorm.DB, actor model.Actor, id uint, in ReviewInput) (*model.Resume, error) {
	if !actor.IsAdmin() {
		return nil, response.ErrForbidden
	}
	if !in.Status.Valid() {
		return nil, response.ErrInvalidRequest.WithTips("未知的审核状态")
	}

	columns := map[string]any{"review_status": in.Status}
	if in.Status == model.ReviewPending {
		columns["reviewed_at"] = nil
	} else {
		columns["reviewed_at"] = time.Now()
	}
	if in.Comment != nil {
		columns["review_comment"] = *in.Comment
	}

	result := db.WithContext(ctx).Model(&model.Resume{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return nil, response.FromDB(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return nil, response.ErrNotFound
	}
	log.Info("简历审核状态变更", "resume_id", id, "status", in.Status, "operator", actor.UserID)
	return GetResume(ctx, db, id)
}

// DeleteResume 项目和获奖经历随简历级联删除
func DeleteResume(ctx context.Context, db *gorm.DB, actor model.Actor, id uint) error {
	if !actor.IsAdmin() {
		return response.ErrForbidden
	}
	result := db.WithContext(ctx).Delete(&model.Resume{}, id)
	if result.Error != nil {
		return response.FromDB(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return response.ErrNotFound
	}
	return nil
}

// ExportResumes 按筛选条件导出 xlsx，简历、项目和奖项各占一个工作表
func ExportResumes(ctx context.Context, db *gorm.DB, f ListFilter) ([]byte, error) {
	q, err := f.apply(db.WithContext(ctx).Model(&model.Resume{}))
	if err != nil {
		return nil, err
	}
	var resumes []model.Resume
	err = q.Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Awards", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("id").
		Find(&resumes).Error
	if err != nil {
		return nil, response.FromDB(err, nil)
	}

	projects := make([]model.ResumeProject, 0)
	awards := make([]model.ResumeAward, 0)
	for _, r := range resumes {
		projects = append(projects, r.Projects...)
		awards = append(awards, r.Awards...)
	}

	data, err := tools.BuildWorkbook(
		tools.Sheet{Name: "简历", Rows: resumes},
		tools.Sheet{Name: "项目经历", Rows: projects},
		tools.Sheet{Name: "获奖经历", Rows: awards},
	)
	if err != nil {
		return nil, response.ErrServerInternal.WithOrigin(err)
	}
	return data, nil
}
