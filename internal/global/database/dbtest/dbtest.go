// Package dbtest 为集成测试启动一个 PostgreSQL 容器并执行全部迁移
// 没有可用的 Docker 时相关测试直接跳过
package dbtest

import (
	"club-management-system/config"
	"club-management-system/internal/global/database"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"context"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

const (
	image    = "postgres:16-alpine"
	dbName   = "club"
	user     = "club"
	password = "club"
)

var (
	once     sync.Once
	shared   *gorm.DB
	setupErr error
)

// tables 清空顺序无关，TRUNCATE ... CASCADE 会处理外键
var tables = []string{
	"refresh_token", "announcement",
	"resource", "progress", "study_member", "study",
	"team_member", "team_role", "team",
	"resume_award", "resume_project", "resume",
	`"user"`,
}

// DB 返回一个已迁移且数据为空的数据库
// 同一个测试进程内共享容器，每次调用都会清空业务表，调用方不要 t.Parallel()
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(func() {
		shared, setupErr = start(context.Background())
	})
	require.NoError(t, setupErr)

	reset(t, shared)
	return shared
}

func start(ctx context.Context) (*gorm.DB, error) {
	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "启动 postgres 容器失败")
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := config.Database{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     port.Port(),
		Username: user,
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}
	if err := database.Migrate(cfg, database.Up, 0); err != nil {
		return nil, err
	}
	return database.Open(cfg, config.ModeRelease)
}

func reset(t *testing.T, db *gorm.DB) {
	t.Helper()
	sql := "TRUNCATE TABLE "
	for i, table := range tables {
		if i > 0 {
			sql += ", "
		}
		sql += table
	}
	require.NoError(t, db.Exec(sql+" RESTART IDENTITY CASCADE").Error)
	require.NoError(t, db.Exec(`UPDATE recruitment_settings
		SET start_date = NULL, end_date = NULL, is_application_enabled = false,
		    auto_enable_on_start = false, auto_disable_on_end = false
		WHERE id = 1`).Error)
}

// Password 测试用户的统一明文密码
const Password = "Passw0rd!"

var passwordHash = sync.OnceValue(func() string {
	hash, err := tools.PasswordEncrypt(Password)
	if err != nil {
		panic(err)
	}
	return hash
})

// NewUser 插入一个随机用户，opts 可以覆盖字段
func NewUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()
	u := &model.User{
		Username: gofakeit.Username() + gofakeit.DigitN(6),
		Password: passwordHash(),
		Name:     gofakeit.Name(),
		Email:    gofakeit.DigitN(8) + gofakeit.Email(),
		Role:     model.RoleMember,
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Admin 把用户设为管理员
func Admin(u *model.User) {
	u.Role = model.RoleAdmin
}
