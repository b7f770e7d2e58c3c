package announcement

import (
	"club-management-system/internal/global/database/dbtest"
	"club-management-system/internal/global/redis/redistest"
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actorOf(u *model.User) model.Actor {
	return model.Actor{UserID: u.ID, Role: u.Role}
}

func TestCreateAndList(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()
	alice := dbtest.NewUser(t, db)
	bob := dbtest.NewUser(t, db)
	admin := dbtest.NewUser(t, db, dbtest.Admin)

	now, err := CreateAnnouncement(ctx, db, actorOf(alice), AnnouncementInput{Title: "招新开始", Contents: "欢迎报名"})
	require.NoError(t, err)
	assert.Zero(t, now.Views)
	_, err = CreateAnnouncement(ctx, db, actorOf(alice), AnnouncementInput{
		Title:     "期末聚餐",
		Contents:  "地点待定",
		PublishAt: tools.Ptr(time.Now().Add(48 * time.Hour)),
	})
	require.NoError(t, err)
	_, err = CreateAnnouncement(ctx, db, actorOf(bob), AnnouncementInput{
		Title:     "周会纪要",
		Contents:  "略",
		PublishAt: tools.Ptr(time.Now().Add(-time.Hour)),
	})
	require.NoError(t, err)

	page, err := ListAnnouncements(ctx, db, model.Actor{}, ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	for _, a := range page.Items {
		assert.NotEqual(t, "期末聚餐", a.Title)
		require.NotNil(t, a.Author)
		assert.NotEmpty(t, a.Author.Username)
	}

	// 作者本人在列表里也看不到定时公告
	page, err = ListAnnouncements(ctx, db, actorOf(alice), ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = ListAnnouncements(ctx, db, actorOf(admin), ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, "期末聚餐", page.Items[0].Title)

	page, err = ListAnnouncements(ctx, db, actorOf(admin), ListFilter{Author: bob.ID.String()})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "周会纪要", page.Items[0].Title)

	page, err = ListAnnouncements(ctx, db, model.Actor{}, ListFilter{Keyword: "招新"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = ListAnnouncements(ctx, db, model.Actor{}, ListFilter{Author: "bob"})
	require.ErrorIs(t, err, response.ErrInvalidRequest)

	t.Run("作者不存在", func(t *testing.T) {
		_, err := CreateAnnouncement(ctx, db, model.Actor{UserID: uuid.New(), Role: model.RoleMember}, AnnouncementInput{Title: "x", Contents: "y"})
		require.ErrorIs(t, err, response.ErrUnauthorized)
	})

	t.Run("作者已注销", func(t *testing.T) {
		gone := dbtest.NewUser(t, db)
		require.NoError(t, db.Delete(gone).Error)
		_, err := CreateAnnouncement(ctx, db, actorOf(gone), AnnouncementInput{Title: "x", Contents: "y"})
		require.ErrorIs(t, err, response.ErrUnauthorized)
		var n int64
		require.NoError(t, db.Model(&model.Announcement{}).Where("user_id = ?", gone.ID).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("标题为空", func(t *testing.T) {
		_, err := CreateAnnouncement(ctx, db, actorOf(alice), AnnouncementInput{Title: "  ", Contents: "y"})
		require.ErrorIs(t, err, response.ErrInvalidRequest)
	})
}

func TestUpdateAndDelete(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()
	alice := dbtest.NewUser(t, db)
	bob := dbtest.NewUser(t, db)
	admin := dbtest.NewUser(t, db, dbtest.Admin)

	a, err := CreateAnnouncement(ctx, db, actorOf(alice), AnnouncementInput{
		Title:     "草稿",
		Contents:  "内容",
		PublishAt: tools.Ptr(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	_, err = UpdateAnnouncement(ctx, db, actorOf(bob), a.ID, AnnouncementUpdate{Title: tools.Ptr("改")})
	require.ErrorIs(t, err, response.ErrForbidden)

	got, err := UpdateAnnouncement(ctx, db, actorOf(alice), a.ID, AnnouncementUpdate{Summary: tools.Ptr("摘要"), PublishNow: true})
	require.NoError(t, err)
	assert.Nil(t, got.PublishAt)
	assert.Equal(t, "草稿", got.Title)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "摘要", *got.Summary)

	_, err = UpdateAnnouncement(ctx, db, actorOf(alice), a.ID, AnnouncementUpdate{PublishNow: true, PublishAt: tools.Ptr(time.Now())})
	require.ErrorIs(t, err, response.ErrInvalidRequest)

	got, err = UpdateAnnouncement(ctx, db, actorOf(admin), a.ID, AnnouncementUpdate{Title: tools.Ptr("正式")})
	require.NoError(t, err)
	assert.Equal(t, "正式", got.Title)

	require.ErrorIs(t, DeleteAnnouncement(ctx, db, actorOf(bob), a.ID), response.ErrForbidden)
	require.NoError(t, DeleteAnnouncement(ctx, db, actorOf(alice), a.ID))
	require.ErrorIs(t, DeleteAnnouncement(ctx, db, actorOf(alice), a.ID), response.ErrNotFound)
}

func TestViewCountsWithoutRedis(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()
	alice := dbtest.NewUser(t, db)
	a, err := CreateAnnouncement(ctx, db, actorOf(alice), AnnouncementInput{Title: "t", Contents: "c"})
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ViewAnnouncement(ctx, db, nil, model.Actor{}, "ip:127.0.0.1", a.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var stored model.Announcement
	require.NoError(t, db.First(&stored, a.ID).Error)
	assert.EqualValues(t, n, stored.Views)

	t.Run("未发布的公告对游客不可见", func(t *testing.T) {
		draft, err := CreateAnnouncement(ctx, db, actorOf(alice), AnnouncementInput{Title: "d", Contents: "c", PublishAt: tools.Ptr(time.Now().Add(time.Hour))})
		require.NoError(t, err)
		_, err = ViewAnnouncement(ctx, db, nil, model.Actor{}, "ip:127.0.0.1", draft.ID)
		require.ErrorIs(t, err, response.ErrNotFound)

		got, err := ViewAnnouncement(ctx, db, nil, actorOf(alice), "", draft.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, got.Views)
	})
}

func TestViewDedup(t *testing.T) {
	db := dbtest.DB(t)
	rdb := redistest.Client(t)
	ctx := context.Background()
	alice := dbtest.NewUser(t, db)
	a, err := CreateAnnouncement(ctx, db, actorOf(alice), AnnouncementInput{Title: "t", Contents: "c"})
	require.NoError(t, err)

	got, err := ViewAnnouncement(ctx, db, rdb, model.Actor{}, "ip:10.0.0.1", a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)

	got, err = ViewAnnouncement(ctx, db, rdb, model.Actor{}, "ip:10.0.0.1", a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)

	got, err = ViewAnnouncement(ctx, db, rdb, actorOf(alice), "user:"+alice.ID.String(), a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Views)

	ttl, err := rdb.TTL(ctx, viewKey(a.ID, "ip:10.0.0.1")).Result()
	require.NoError(t, err)
	assert.InDelta(t, viewDedupTTL.Seconds(), ttl.Seconds(), 60)
}
