package ping

import (
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/redis"
	"club-management-system/internal/global/response"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"message": "pong",
		"version": version,
	})
}

// Status 各依赖的检查结果，未配置的依赖为 disabled
type Status struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func (s Status) Healthy() bool {
	return s.Database == "ok" && s.Redis != "down"
}

// Check 检查数据库和 Redis，rdb 为 nil 时视为未启用
func Check(ctx context.Context, db *gorm.DB, rdb *goredis.Client) Status {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	s := Status{Database: "ok", Redis: "disabled"}
	if db == nil {
		s.Database = "down"
	} else if sqlDB, err := db.DB(); err != nil {
		s.Database = "down"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		log.Error("数据库健康检查失败", "error", err)
		s.Database = "down"
	}

	if rdb != nil {
		s.Redis = "ok"
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("Redis 健康检查失败", "error", err)
			s.Redis = "down"
		}
	}
	return s
}

// Health 就绪检查，依赖不可用时返回 503
func Health(c *gin.Context) {
	s := Check(c.Request.Context(), database.DB, redis.Client)
	if !s.Healthy() {
		c.JSON(http.StatusServiceUnavailable, response.ResponseBody{
			Code: http.StatusServiceUnavailable * 100,
			Msg:  "服务不可用",
			Data: s,
		})
		return
	}
	response.Success(c, s)
}
