package ping

import (
	"club-management-system/internal/global/metrics"

	"github.com/gin-gonic/gin"
)

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", Ping)
	r.GET("/health", Health)
	r.GET("/metrics", metrics.Handler())
}
