package ping

import (
	"club-management-system/internal/global/database/dbtest"
	"club-management-system/internal/global/redis/redistest"
	"club-management-system/internal/global/testutil"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()

	s := Check(ctx, db, nil)
	assert.Equal(t, Status{Database: "ok", Redis: "disabled"}, s)
	assert.True(t, s.Healthy())

	s = Check(ctx, db, redistest.Client(t))
	assert.Equal(t, "ok", s.Redis)
	assert.True(t, s.Healthy())

	dead := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	defer dead.Close()
	s = Check(ctx, db, dead)
	assert.Equal(t, "down", s.Redis)
	assert.False(t, s.Healthy())

	s = Check(ctx, nil, nil)
	assert.False(t, s.Healthy())
}

func TestPingRoutes(t *testing.T) {
	testutil.UseConfig(t)
	r := gin.New()
	(&ModulePing{}).InitRouter(r.Group("/api"))

	w, resp := testutil.Serve(t, r, http.MethodGet, "/api/ping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.NoError(t, resp)

	w, _ = testutil.Serve(t, r, http.MethodGet, "/api/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "club_resumes_submitted_total")
}
