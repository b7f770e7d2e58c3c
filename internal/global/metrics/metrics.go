package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry 独立的注册表，避免和依赖库注册到默认注册表的指标混在一起
var Registry = prometheus.NewRegistry()

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "club",
		Name:      "http_requests_total",
		Help:      "HTTP 请求数",
	}, []string{"method", "path", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "club",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	ResumesSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "club",
		Name:      "resumes_submitted_total",
		Help:      "提交的简历数",
	})

	TeamJoins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "club",
		Name:      "team_joins_total",
		Help:      "加入团队的结果",
	}, []string{"result"})

	NotifyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "club",
		Name:      "notify_failures_total",
		Help:      "webhook 通知失败次数",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests,
		HTTPDuration,
		ResumesSubmitted,
		TeamJoins,
		NotifyFailures,
	)
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry}))
}
