// Package tracing 把数据库、Redis 和对外 HTTP 调用挂到当前请求的 Sentry transaction 下
package tracing

import (
	"time"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	gormSpanKey  = "sentry:span"
	gormStartKey = "sentry:start"
	gormCallback = "sentry_tracing"
)

// GormPlugin 为每条 SQL 创建子 span，只保留超过阈值的慢查询
type GormPlugin struct {
	dbSystem      string
	slowThreshold time.Duration
}

func NewGormPlugin(dbSystem string, slowThreshold time.Duration) *GormPlugin {
	return &GormPlugin{dbSystem: dbSystem, slowThreshold: slowThreshold}
}

func (p *GormPlugin) Name() string {
	return "SentryTracingPlugin"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op       string
		register func(before, after func(*gorm.DB)) error
	}{
		{"db.sql.create", func(b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register(gormCallback+":before_create", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register(gormCallback+":after_create", a)
		}},
		{"db.sql.query", func(b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register(gormCallback+":before_query", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register(gormCallback+":after_query", a)
		}},
		{"db.sql.update", func(b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register(gormCallback+":before_update", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register(gormCallback+":after_update", a)
		}},
		{"db.sql.delete", func(b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register(gormCallback+":before_delete", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register(gormCallback+":after_delete", a)
		}},
		{"db.sql.raw", func(b, a func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register(gormCallback+":before_raw", b); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register(gormCallback+":after_raw", a)
		}},
	}
	for _, h := range hooks {
		if err := h.register(p.before(h.op), p.after); err != nil {
			return err
		}
	}
	return nil
}

func (p *GormPlugin) before(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		db.InstanceSet(gormStartKey, time.Now())

		parent := sentry.SpanFromContext(db.Statement.Context)
		if parent == nil {
			return
		}
		span := parent.StartChild(op)
		// 只记录表名，避免 SQL 中的个人信息进入 Sentry
		span.Description = db.Statement.Table
		span.SetData("db.system", p.dbSystem)
		db.InstanceSet(gormSpanKey, span)
		db.Statement.Context = span.Context()
	}
}

func (p *GormPlugin) after(db *gorm.DB) {
	if db.Statement == nil {
		return
	}
	startVal, ok := db.InstanceGet(gormStartKey)
	if !ok {
		return
	}
	spanVal, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := spanVal.(*sentry.Span)
	if !ok || span == nil {
		return
	}
	if start, ok := startVal.(time.Time); ok && p.slowThreshold > 0 && time.Since(start) < p.slowThreshold {
		span.Sampled = sentry.SampledFalse
	}
	span.SetData("db.rows_affected", db.RowsAffected)
	if db.Error != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("db.error", db.Error.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
