package recruit

import (
	"club-management-system/internal/global/metrics"
	"club-management-system/internal/global/notify"
	"club-management-system/internal/model"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAnnounceSubmission(t *testing.T) {
	status := http.StatusOK
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(status)
	}))
	defer srv.Close()

	r := &model.Resume{Model: model.Model{ID: 3}, Name: "张三", StudentNumber: "202300001"}
	n := notify.New(resty.New(), srv.URL)

	before := testutil.ToFloat64(metrics.NotifyFailures)
	announceSubmission(context.Background(), n, r)
	assert.Equal(t, 1, hits)
	assert.Equal(t, before, testutil.ToFloat64(metrics.NotifyFailures))

	status = http.StatusInternalServerError
	announceSubmission(context.Background(), n, r)
	assert.Equal(t, 2, hits)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotifyFailures))

	// 未配置 webhook 时不发请求
	announceSubmission(context.Background(), notify.New(resty.New(), ""), r)
	announceSubmission(context.Background(), nil, r)
	assert.Equal(t, 2, hits)
}
