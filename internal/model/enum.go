package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role 用户角色，等级依次升高
type Role string

const (
	RoleGuest  Role = "GUEST"
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
)

var roleRank = map[Role]int{
	RoleGuest:  0,
	RoleMember: 1,
	RoleAdmin:  2,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast 当前角色是否不低于 min，未知角色一律视为最低
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type ExecutionType string

const (
	ExecutionOnline  ExecutionType = "online"
	ExecutionOffline ExecutionType = "offline"
	ExecutionHybrid  ExecutionType = "hybrid"
)

func (t ExecutionType) Valid() bool {
	switch t {
	case ExecutionOnline, ExecutionOffline, ExecutionHybrid:
		return true
	}
	return false
}

type TeamStatus string

const (
	TeamOpen   TeamStatus = "open"
	TeamClosed TeamStatus = "closed"
)

func (s TeamStatus) Valid() bool {
	return s == TeamOpen || s == TeamClosed
}

// ReviewStatus 简历审核状态，任意状态之间都可以直接切换
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewReviewed ReviewStatus = "reviewed"
	ReviewAccepted ReviewStatus = "accepted"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewReviewed, ReviewAccepted, ReviewRejected:
		return true
	}
	return false
}

// StudyMemberRole 学习小组成员角色
// 数据库中是自由字符串，读到无法识别的历史值时按 UNKNOWN 处理，写入时只接受已知值
type StudyMemberRole string

const (
	StudyRolePending StudyMemberRole = "PENDING"
	StudyRoleMember  StudyMemberRole = "MEMBER"
	StudyRoleLeader  StudyMemberRole = "LEADER"
	StudyRoleUnknown StudyMemberRole = "UNKNOWN"
)

func (r StudyMemberRole) Valid() bool {
	switch r {
	case StudyRolePending, StudyRoleMember, StudyRoleLeader:
		return true
	}
	return false
}

// Normalize 无法识别的值返回 UNKNOWN
func (r StudyMemberRole) Normalize() StudyMemberRole {
	if r.Valid() {
		return r
	}
	return StudyRoleUnknown
}

// Active 是否占用小组名额
func (r StudyMemberRole) Active() bool {
	return r == StudyRoleMember || r == StudyRoleLeader
}

func (r StudyMemberRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r.Normalize()))
}

func ParseStudyMemberRole(s string) (StudyMemberRole, error) {
	r := StudyMemberRole(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown study member role %q", s)
	}
	return r, nil
}
