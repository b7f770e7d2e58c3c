package database

import (
	"club-management-system/config"
	"club-management-system/internal/global/sentry"
	"club-management-system/internal/global/sentry/tracing"
	"club-management-system/tools"
	"fmt"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

func Init() {
	cfg := config.Get()
	if cfg.Database.AutoMigrate {
		tools.PanicOnErr(Migrate(cfg.Database, Up, 0))
	}

	db, err := Open(cfg.Database, cfg.Mode)
	tools.PanicOnErr(err)

	if sentry.Enabled() {
		threshold := time.Duration(cfg.Sentry.Tracing.DBSlowThresholdMs) * time.Millisecond
		tools.PanicOnErr(db.Use(tracing.NewGormPlugin(string(cfg.Database.Driver), threshold)))
	}
	DB = db
}

// Open 按配置连接数据库，表结构由迁移脚本维护，这里不做 AutoMigrate
func Open(cfg config.Database, mode config.Mode) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverMySQL, "":
		dialector = mysql.Open(DSN(cfg))
	case config.DriverPostgres:
		dialector = postgres.Open(DSN(cfg))
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true}, // 还是单数表名好
		TranslateError: true,
	}
	switch mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, errors.Wrap(err, "连接数据库失败")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// DSN 生成驱动对应的连接串
// MySQL 需要开启 multiStatements，迁移脚本一个文件里有多条语句
func DSN(cfg config.Database) string {
	if cfg.Driver == config.DriverPostgres {
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName, sslMode)
	}

	c := mysqldriver.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	c.DBName = cfg.DBName
	c.ParseTime = true
	c.Loc = time.Local
	c.MultiStatements = true
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}
