package team

import (
	"club-management-system/internal/global/metrics"
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateRole 新增岗位，current_count 从 0 开始
func CreateRole(ctx context.Context, db *gorm.DB, actor model.Actor, teamID uint, in RoleInput) (*model.TeamRole, error) {
	if err := in.validate(); err != nil {
		return nil, response.ErrInvalidRequest.WithTips(err.Error())
	}
	db = db.WithContext(ctx)
	t, err := getTeam(db, teamID)
	if err != nil {
		return nil, err
	}
	if err := canManage(actor, t); err != nil {
		return nil, err
	}
	r := &model.TeamRole{TeamID: teamID, RoleName: strings.TrimSpace(in.RoleName), RecruitCount: in.RecruitCount}
	if err := db.Create(r).Error; err != nil {
		return nil, response.FromDB(err, nil)
	}
	return r, nil
}

type RoleUpdate struct {
	RoleName     *string `json:"role_name"`
	RecruitCount *int    `json:"recruit_count"`
}

// UpdateRole 招募人数不能小于已加入人数
func UpdateRole(ctx context.Context, db *gorm.DB, actor model.Actor, teamID, roleID uint, in RoleUpdate) (*model.TeamRole, error) {
	var r model.TeamRole
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := getTeam(tx, teamID)
		if err != nil {
			return err
		}
		if err := canManage(actor, t); err != nil {
			return err
		}
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND team_id = ?", roleID, teamID).
			First(&r).Error
		if err != nil {
			return response.FromDB(err, nil)
		}

		columns := map[string]any{}
		if in.RoleName != nil {
			name := strings.TrimSpace(*in.RoleName)
			if name == "" {
				return response.ErrInvalidRequest.WithTips("岗位名称不能为空")
			}
			columns["role_name"] = name
		}
		if in.RecruitCount != nil {
			if *in.RecruitCount < r.CurrentCount {
				return response.ErrConflict.WithTips("招募人数不能小于已加入人数")
			}
			columns["recruit_count"] = *in.RecruitCount
		}
		if len(columns) == 0 {
			return nil
		}
		if err := tx.Model(&r).Updates(columns).Error; err != nil {
			return response.FromDB(err, nil)
		}
		return tx.First(&r, roleID).Error
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRole 删除岗位，成员保留，team_role_id 由外键置空
func DeleteRole(ctx context.Context, db *gorm.DB, actor model.Actor, teamID, roleID uint) error {
	db = db.WithContext(ctx)
	t, err := getTeam(db, teamID)
	if err != nil {
		return err
	}
	if err := canManage(actor, t); err != nil {
		return err
	}
	result := db.Where("id = ? AND team_id = ?", roleID, teamID).Delete(&model.TeamRole{})
	if result.Error != nil {
		return response.FromDB(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return response.ErrNotFound
	}
	return nil
}

// closed 团队已关闭，或截止日期（含当天）已过
func closed(t *model.Team, now time.Time) bool {
	if t.Status == model.TeamClosed {
		return true
	}
	if t.Deadline == nil {
		return false
	}
	y, m, d := time.Time(*t.Deadline).Date()
	return !now.Before(time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()))
}

// JoinTeam 加入团队，同一用户在同一团队只能有一条记录
// 指定岗位时锁住岗位行，满员拒绝，否则 current_count 加一
func JoinTeam(ctx context.Context, db *gorm.DB, actor model.Actor, teamID uint, userID uuid.UUID, roleID *uint) (*model.TeamMember, error) {
	m, err := joinTeam(ctx, db, actor, teamID, userID, roleID)
	metrics.TeamJoins.WithLabelValues(joinResult(err)).Inc()
	if err != nil {
		return nil, err
	}
	log.Info("加入团队", "team_id", teamID, "user_id", userID, "role_id", roleID)
	return m, nil
}

func joinTeam(ctx context.Context, db *gorm.DB, actor model.Actor, teamID uint, userID uuid.UUID, roleID *uint) (*model.TeamMember, error) {
	var m *model.TeamMember
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := getTeam(tx, teamID)
		if err != nil {
			return err
		}
		// 本人加入，或由队长和管理员拉人
		if actor.UserID == uuid.Nil || actor.UserID != userID {
			if err := canManage(actor, t); err != nil {
				return err
			}
		}
		if closed(t, time.Now()) {
			return response.ErrTeamClosed
		}
		if err := model.RequireUser(tx, userID); err != nil {
			return response.FromDB(err, nil)
		}

		var n int64
		if err := tx.Model(&model.TeamMember{}).Where("team_id = ? AND user_id = ?", teamID, userID).Count(&n).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if n > 0 {
			return response.ErrDuplicateMembership
		}

		if roleID != nil {
			var r model.TeamRole
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, *roleID).Error; err != nil {
				return response.FromDB(err, nil)
			}
			if r.TeamID != teamID {
				return response.ErrInvalidRequest.WithTips("岗位不属于该团队")
			}
			if r.Full() {
				return response.ErrRoleFull
			}
			if err := tx.Model(&r).Update("current_count", gorm.Expr("current_count + 1")).Error; err != nil {
				return response.FromDB(err, nil)
			}
		}

		m = &model.TeamMember{
			UserID:     userID,
			TeamID:     teamID,
			TeamRoleID: roleID,
			IsLeader:   t.LeaderID != nil && *t.LeaderID == userID,
		}
		if err := tx.Create(m).Error; err != nil {
			// 并发加入时以唯一约束为准
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return response.ErrDuplicateMembership.WithOrigin(err)
			}
			return response.FromDB(err, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func joinResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, response.ErrDuplicateMembership):
		return "duplicate"
	case errors.Is(err, response.ErrRoleFull):
		return "role_full"
	case errors.Is(err, response.ErrTeamClosed):
		return "closed"
	default:
		return "error"
	}
}

// RemoveMember 本人退出，或由队长和管理员移除，占用的岗位名额随之释放
func RemoveMember(ctx context.Context, db *gorm.DB, actor model.Actor, teamID uint, userID uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := getTeam(tx, teamID)
		if err != nil {
			return err
		}
		if actor.UserID == uuid.Nil || actor.UserID != userID {
			if err := canManage(actor, t); err != nil {
				return err
			}
		}

		var m model.TeamMember
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("team_id = ? AND user_id = ?", teamID, userID).
			First(&m).Error
		if err != nil {
			return response.FromDB(err, nil)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return response.FromDB(err, nil)
		}
		if m.TeamRoleID != nil {
			err := tx.Model(&model.TeamRole{}).
				Where("id = ? AND current_count > 0", *m.TeamRoleID).
				Update("current_count", gorm.Expr("current_count - 1")).Error
			if err != nil {
				return response.FromDB(err, nil)
			}
		}
		return nil
	})
}

// ListMembers 团队成员，附带用户和岗位
func ListMembers(ctx context.Context, db *gorm.DB, teamID uint) ([]model.TeamMember, error) {
	db = db.WithContext(ctx)
	if _, err := getTeam(db, teamID); err != nil {
		return nil, err
	}
	var members []model.TeamMember
	err := db.Preload("User").Preload("Role").
		Where("team_id = ?", teamID).
		Order("id").
		Find(&members).Error
	if err != nil {
		return nil, response.FromDB(err, nil)
	}
	return members, nil
}
