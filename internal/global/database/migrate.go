package database

import (
	"club-management-system/config"
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

//go:embed migrations
var migrationFS embed.FS

// Migrate 执行迁移，steps 为 0 时迁移到最新（up）或全部回滚（down）
func Migrate(cfg config.Database, direction Direction, steps int) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	switch {
	case steps > 0 && direction == Down:
		err = m.Steps(-steps)
	case steps > 0:
		err = m.Steps(steps)
	case direction == Down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrapf(err, "数据库迁移失败（%s）", direction)
	}
	return nil
}

// Version 当前迁移版本，dirty 表示上次迁移中途失败
func Version(cfg config.Database) (version uint, dirty bool, err error) {
	m, err := newMigrate(cfg)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, errors.WithStack(err)
}

// newMigrate 使用独立的连接，m.Close() 会把它一并关闭
func newMigrate(cfg config.Database) (*migrate.Migrate, error) {
	dir, driverName := "migrations/mysql", "mysql"
	if cfg.Driver == config.DriverPostgres {
		dir, driverName = "migrations/postgres", "pgx"
	}

	src, err := iofs.New(migrationFS, dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sqlDB, err := sql.Open(driverName, DSN(cfg))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var driver migratedb.Driver
	switch cfg.Driver {
	case config.DriverPostgres:
		driver, err = migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	case config.DriverMySQL, "":
		driver, err = migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	default:
		err = fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
	if err != nil {
		_ = sqlDB.Close()
		return nil, errors.WithStack(err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(cfg.Driver), driver)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return m, nil
}
