package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Team struct {
	Model
	Title            string          `gorm:"type:varchar(100);not null" json:"title"`
	Category         string          `gorm:"type:varchar(50)" json:"category"`
	PeriodStart      *datatypes.Date `json:"period_start"`
	PeriodEnd        *datatypes.Date `json:"period_end"`
	Deadline         *datatypes.Date `json:"deadline"`
	Description      string          `gorm:"type:text" json:"description"`
	TechStack        Tags            `gorm:"type:varchar(255)" json:"tech_stack"`
	Tags             Tags            `gorm:"type:varchar(255)" json:"tags"`
	Goals            string          `gorm:"type:text" json:"goals"`
	ExecutionType    ExecutionType   `gorm:"type:varchar(10);not null;default:online" json:"execution_type"`
	SelectionProcess string          `gorm:"type:text" json:"selection_process"`
	Link             string          `gorm:"type:varchar(255)" json:"link"`
	Contact          string          `gorm:"type:varchar(100)" json:"contact"`
	Status           TeamStatus      `gorm:"type:varchar(10);not null;default:open" json:"status"`
	ProjectImage     string          `gorm:"type:varchar(255)" json:"project_image"`
	LeaderID         *uuid.UUID      `gorm:"type:char(36);index" json:"leader_id"` // 队长被删除时置空

	Leader  *User        `gorm:"foreignKey:LeaderID;constraint:OnDelete:SET NULL" json:"leader,omitempty"`
	Roles   []TeamRole   `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
	Members []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// TeamRole 团队招募岗位，current_count 不能超过 recruit_count，由业务层保证
type TeamRole struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TeamID       uint   `gorm:"not null;index" json:"team_id"`
	RoleName     string `gorm:"type:varchar(50);not null" json:"role_name"`
	RecruitCount int    `gorm:"not null;default:0" json:"recruit_count"`
	CurrentCount int    `gorm:"not null;default:0" json:"current_count"`
}

func (r *TeamRole) Full() bool {
	return r.CurrentCount >= r.RecruitCount
}

// TeamMember 同一用户在同一团队中只能有一条记录
// 岗位被删除时 team_role_id 置空，成员保留
type TeamMember struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uq_team_member_user_team" json:"user_id"`
	TeamID     uint      `gorm:"not null;uniqueIndex:uq_team_member_user_team" json:"team_id"`
	TeamRoleID *uint     `gorm:"index" json:"team_role_id"`
	IsLeader   bool      `gorm:"not null;default:false" json:"is_leader"`
	CreatedAt  time.Time `json:"created_at"`

	User *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Role *TeamRole `gorm:"foreignKey:TeamRoleID;constraint:OnDelete:SET NULL" json:"role,omitempty"`
}
