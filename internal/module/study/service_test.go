package study

import (
	"club-management-system/internal/global/database/dbtest"
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func actorOf(u *model.User) model.Actor {
	return model.Actor{UserID: u.ID, Role: u.Role}
}

func newStudy(t *testing.T, db *gorm.DB, leader *model.User, recruit int) *model.Study {
	t.Helper()
	s, err := CreateStudy(context.Background(), db, actorOf(leader), StudyInput{
		StudyName:    "Go 语言学习",
		Tag:          model.Tags{"go", "backend"},
		RecruitCount: recruit,
	})
	require.NoError(t, err)
	return s
}

func TestCreateStudy(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()
	leader := dbtest.NewUser(t, db)

	s := newStudy(t, db, leader, 5)
	got, err := GetStudy(ctx, db, s.ID)
	require.NoError(t, err)

	// 截止时间默认取创建时间
	assert.WithinDuration(t, got.CreatedAt, got.ApplyDeadline, time.Millisecond)
	assert.Equal(t, model.Tags{"go", "backend"}, got.Tag)
	require.Len(t, got.Members, 1)
	assert.Equal(t, model.StudyRoleLeader, got.Members[0].Role)
	assert.Equal(t, leader.ID, *got.Members[0].UserID)

	deadline := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	s2, err := CreateStudy(ctx, db, actorOf(leader), StudyInput{StudyName: "React", ApplyDeadline: &deadline})
	require.NoError(t, err)
	got, err = GetStudy(ctx, db, s2.ID)
	require.NoError(t, err)
	assert.True(t, deadline.Equal(got.ApplyDeadline))

	_, err = CreateStudy(ctx, db, actorOf(leader), StudyInput{StudyName: "x", RecruitCount: -1})
	require.ErrorIs(t, err, response.ErrInvalidRequest)
}

func TestListStudies(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()
	leader := dbtest.NewUser(t, db)
	newStudy(t, db, leader, 0)
	_, err := CreateStudy(ctx, db, actorOf(leader), StudyInput{StudyName: "前端", Tag: model.Tags{"react", "gopher"}})
	require.NoError(t, err)

	page, err := ListStudies(ctx, db, ListFilter{Tag: "go"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Go 语言学习", page.Items[0].StudyName)

	page, err = ListStudies(ctx, db, ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestMembers(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()
	leader := dbtest.NewUser(t, db)
	alice := dbtest.NewUser(t, db)
	bob := dbtest.NewUser(t, db)
	carol := dbtest.NewUser(t, db)
	s := newStudy(t, db, leader, 2)

	ma, err := AddMember(ctx, db, actorOf(alice), s.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StudyRolePending, ma.Role)

	t.Run("重复报名", func(t *testing.T) {
		_, err := AddMember(ctx, db, actorOf(alice), s.ID, alice.ID)
		require.ErrorIs(t, err, response.ErrConflict)
	})

	t.Run("不能替别人报名", func(t *testing.T) {
		_, err := AddMember(ctx, db, actorOf(alice), s.ID, bob.ID)
		require.ErrorIs(t, err, response.ErrForbidden)
	})

	// 报名不受名额限制
	mb, err := AddMember(ctx, db, actorOf(leader), s.ID, bob.ID)
	require.NoError(t, err)
	mc, err := AddMember(ctx, db, actorOf(carol), s.ID, carol.ID)
	require.NoError(t, err)

	t.Run("普通成员不能审批", func(t *testing.T) {
		_, err := SetMemberRole(ctx, db, actorOf(alice), s.ID, mb.ID, model.StudyRoleMember)
		require.ErrorIs(t, err, response.ErrForbidden)
	})

	// 名额为 2，LEADER 占一个
	_, err = SetMemberRole(ctx, db, actorOf(leader), s.ID, ma.ID, model.StudyRoleMember)
	require.NoError(t, err)
	_, err = SetMemberRole(ctx, db, actorOf(leader), s.ID, mb.ID, model.StudyRoleMember)
	require.ErrorIs(t, err, response.ErrStudyFull)

	// 已占名额的成员改角色不重复计数
	_, err = SetMemberRole(ctx, db, actorOf(leader), s.ID, ma.ID, model.StudyRoleMember)
	require.NoError(t, err)

	_, err = SetMemberRole(ctx, db, actorOf(leader), s.ID, ma.ID, model.StudyMemberRole("OBSERVER"))
	require.ErrorIs(t, err, response.ErrInvalidRequest)

	// 退出后名额释放
	require.NoError(t, RemoveMember(ctx, db, actorOf(alice), s.ID, ma.ID))
	_, err = SetMemberRole(ctx, db, actorOf(leader), s.ID, mb.ID, model.StudyRoleMember)
	require.NoError(t, err)

	require.ErrorIs(t, RemoveMember(ctx, db, actorOf(bob), s.ID, mc.ID), response.ErrForbidden)
	require.ErrorIs(t, RemoveMember(ctx, db, actorOf(leader), s.ID+1, mc.ID), response.ErrNotFound)

	_, err = AddMember(ctx, db, actorOf(leader), s.ID, uuid.New())
	require.ErrorIs(t, err, response.ErrNotFound)
}

func TestUnknownMemberRole(t *testing.T) {
	db := dbtest.DB(t)
	leader := dbtest.NewUser(t, db)
	s := newStudy(t, db, leader, 0)

	require.NoError(t, db.Exec("UPDATE study_member SET role = 'MENTOR' WHERE study_id = ?", s.ID).Error)
	got, err := GetStudy(context.Background(), db, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	assert.Equal(t, model.StudyRoleUnknown, got.Members[0].Role.Normalize())

	b, err := json.Marshal(got.Members[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"role":"UNKNOWN"`)
}

func TestProgressAndResources(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()
	leader := dbtest.NewUser(t, db)
	s := newStudy(t, db, leader, 0)
	other := newStudy(t, db, leader, 0)
	actor := actorOf(leader)

	// 没有周次和日期的进度也可以添加
	p, err := AddProgress(ctx, db, actor, s.ID, ProgressInput{Title: "环境搭建"})
	require.NoError(t, err)
	assert.Nil(t, p.WeekNo)
	assert.Nil(t, p.ProgressDate)

	p2, err := AddProgress(ctx, db, actor, s.ID, ProgressInput{Title: "并发", WeekNo: tools.Ptr(2), ProgressDate: "2025-03-10"})
	require.NoError(t, err)
	require.NotNil(t, p2.ProgressDate)

	_, err = AddProgress(ctx, db, actor, s.ID, ProgressInput{Title: "x", ProgressDate: "03/10"})
	require.ErrorIs(t, err, response.ErrInvalidRequest)

	t.Run("进度必须属于同一小组", func(t *testing.T) {
		_, err := AttachResource(ctx, db, actor, other.ID, ResourceInput{ProgressID: &p.ID, Name: "slides", DirPath: "resource/a.pdf"})
		require.ErrorIs(t, err, response.ErrInvalidRequest)
	})

	r, err := AttachResource(ctx, db, actor, s.ID, ResourceInput{ProgressID: &p.ID, Name: "slides", DirPath: "resource/202503/a.PDF"})
	require.NoError(t, err)
	assert.Equal(t, "pdf", r.Format)
	_, err = AttachResource(ctx, db, actor, s.ID, ResourceInput{Name: "book", DirPath: "resource/b.epub"})
	require.NoError(t, err)

	list, err := ListResources(ctx, db, s.ID, &p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// 删除进度后资料回到小组层级
	require.NoError(t, DeleteProgress(ctx, db, actor, s.ID, p.ID))
	var reloaded model.Resource
	require.NoError(t, db.First(&reloaded, r.ID).Error)
	assert.Nil(t, reloaded.ProgressID)

	require.NoError(t, DeleteResource(ctx, db, actor, s.ID, r.ID))
	list, err = ListResources(ctx, db, s.ID, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	var raw model.Resource
	require.NoError(t, db.Unscoped().First(&raw, r.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)

	require.ErrorIs(t, DeleteResource(ctx, db, actor, s.ID, r.ID), response.ErrNotFound)
	require.ErrorIs(t, DeleteProgress(ctx, db, actor, other.ID, p2.ID), response.ErrNotFound)
}

func TestDeleteStudy(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()
	leader := dbtest.NewUser(t, db)
	member := dbtest.NewUser(t, db)
	actor := actorOf(leader)
	s := newStudy(t, db, leader, 0)
	_, err := AddMember(ctx, db, actorOf(member), s.ID, member.ID)
	require.NoError(t, err)

	p, err := AddProgress(ctx, db, actor, s.ID, ProgressInput{Title: "第一周"})
	require.NoError(t, err)
	r, err := AttachResource(ctx, db, actor, s.ID, ResourceInput{Name: "notes", DirPath: "resource/n.md"})
	require.NoError(t, err)

	require.ErrorIs(t, DeleteStudy(ctx, db, actorOf(member), s.ID), response.ErrForbidden)
	require.ErrorIs(t, DeleteStudy(ctx, db, actor, s.ID), response.ErrHasDependents)

	require.NoError(t, DeleteProgress(ctx, db, actor, s.ID, p.ID))
	require.ErrorIs(t, DeleteStudy(ctx, db, actor, s.ID), response.ErrHasDependents)

	// 只剩软删除的资料和成员记录时可以删除
	require.NoError(t, DeleteResource(ctx, db, actor, s.ID, r.ID))
	require.NoError(t, DeleteStudy(ctx, db, actor, s.ID))

	var n int64
	require.NoError(t, db.Model(&model.StudyMember{}).Where("study_id = ?", s.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Unscoped().Model(&model.Resource{}).Where("study_id = ?", s.ID).Count(&n).Error)
	assert.Zero(t, n)

	_, err = GetStudy(ctx, db, s.ID)
	require.ErrorIs(t, err, response.ErrNotFound)
}

func TestStudyUpdate(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()
	leader := dbtest.NewUser(t, db)
	s := newStudy(t, db, leader, 0)

	tags := model.Tags{"rust"}
	got, err := UpdateStudy(ctx, db, actorOf(leader), s.ID, StudyUpdate{Tag: &tags, RecruitCount: tools.Ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, model.Tags{"rust"}, got.Tag)
	assert.Equal(t, 10, got.RecruitCount)

	_, err = UpdateStudy(ctx, db, actorOf(leader), s.ID, StudyUpdate{StudyName: tools.Ptr(" ")})
	require.ErrorIs(t, err, response.ErrInvalidRequest)

	admin := model.Actor{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err = UpdateStudy(ctx, db, admin, s.ID, StudyUpdate{Location: tools.Ptr("A101")})
	require.NoError(t, err)
}

func TestSoftDeletedUserCannotApply(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()
	leader := dbtest.NewUser(t, db)
	gone := dbtest.NewUser(t, db)
	s := newStudy(t, db, leader, 2)
	require.NoError(t, db.Delete(gone).Error)

	_, err := AddMember(ctx, db, actorOf(leader), s.ID, gone.ID)
	require.ErrorIs(t, err, response.ErrNotFound)
	_, err = AddMember(ctx, db, actorOf(gone), s.ID, gone.ID)
	require.ErrorIs(t, err, response.ErrNotFound)

	// 注销用户的访问令牌仍未过期时也不能建小组
	_, err = CreateStudy(ctx, db, actorOf(gone), StudyInput{StudyName: "Rust"})
	require.ErrorIs(t, err, response.ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&model.Study{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	require.NoError(t, db.Model(&model.StudyMember{}).Where("user_id = ?", gone.ID).Count(&n).Error)
	assert.Zero(t, n)
}
