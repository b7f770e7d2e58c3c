package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleMember))
	assert.True(t, RoleMember.AtLeast(RoleMember))
	assert.False(t, RoleGuest.AtLeast(RoleMember))
	assert.False(t, Role("ROOT").AtLeast(RoleGuest))

	r, err := ParseRole(" member ")
	require.NoError(t, err)
	assert.Equal(t, RoleMember, r)
	_, err = ParseRole("owner")
	assert.Error(t, err)
}

func TestStudyMemberRole(t *testing.T) {
	b, err := json.Marshal(struct {
		Role StudyMemberRole `json:"role"`
	}{Role: "MENTOR"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"UNKNOWN"}`, string(b))

	assert.True(t, StudyRoleLeader.Active())
	assert.False(t, StudyRolePending.Active())
	assert.False(t, StudyRoleUnknown.Valid())

	r, err := ParseStudyMemberRole("leader")
	require.NoError(t, err)
	assert.Equal(t, StudyRoleLeader, r)
	_, err = ParseStudyMemberRole("UNKNOWN")
	assert.Error(t, err)
}

func TestTags(t *testing.T) {
	tags := ParseTags(" go, ,vue ,")
	assert.Equal(t, Tags{"go", "vue"}, tags)
	assert.Equal(t, "go,vue", tags.String())
	assert.True(t, tags.Contains("GO"))
	assert.Equal(t, "a b,c", Tags{"a,b", " c "}.String())

	v, err := tags.Value()
	require.NoError(t, err)
	assert.Equal(t, "go,vue", v)

	var scanned Tags
	require.NoError(t, scanned.Scan([]byte("x,y")))
	assert.Equal(t, Tags{"x", "y"}, scanned)
	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
	assert.Error(t, scanned.Scan(42))

	b, err := json.Marshal(Tags{"go", "react"})
	require.NoError(t, err)
	assert.Equal(t, `"go,react"`, string(b))

	var fromString, fromArray Tags
	require.NoError(t, json.Unmarshal([]byte(`"go, react"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`["go", "react"]`), &fromArray))
	assert.Equal(t, fromString, fromArray)
	assert.Error(t, json.Unmarshal([]byte(`{}`), &fromArray))
}

func TestPage(t *testing.T) {
	p := Page{}.Normalize()
	assert.Equal(t, Page{Page: 1, PageSize: 10}, p)
	assert.Zero(t, p.Offset())

	p = Page{Page: 3, PageSize: 500}.Normalize()
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, 200, p.Offset())

	res := NewPageResult[int](nil, 21, Page{Page: 1, PageSize: 10})
	assert.NotNil(t, res.Items)
	assert.EqualValues(t, 3, res.TotalPages)
}

func TestActor(t *testing.T) {
	id := uuid.New()
	assert.True(t, Actor{UserID: id, Role: RoleGuest}.Owns(id))
	assert.False(t, Actor{UserID: uuid.New(), Role: RoleMember}.Owns(id))
	assert.True(t, Actor{Role: RoleAdmin}.Owns(id))
	assert.False(t, Actor{}.Owns(uuid.Nil))
}

func TestPublicProfile(t *testing.T) {
	sn, major := "202300001", "软件工程"
	u := &User{Username: "alice", StudentNumber: &sn, Major: &major}
	u.IsMajorPublic = true

	p := u.Public()
	assert.Nil(t, p.StudentNumber)
	require.NotNil(t, p.Major)
	assert.Equal(t, major, *p.Major)
}

func TestTimeHelpers(t *testing.T) {
	now := time.Now()
	assert.True(t, (&RefreshToken{ExpiresAt: now}).Expired(now))
	assert.False(t, (&RefreshToken{ExpiresAt: now.Add(time.Second)}).Expired(now))

	future := now.Add(time.Hour)
	assert.True(t, (&Announcement{}).Published(now))
	assert.False(t, (&Announcement{PublishAt: &future}).Published(now))
	assert.True(t, (&Announcement{PublishAt: &now}).Published(now))

	assert.True(t, (&TeamRole{RecruitCount: 2, CurrentCount: 2}).Full())
	assert.True(t, (&TeamRole{}).Full())
	assert.False(t, (&TeamRole{RecruitCount: 1}).Full())
}
