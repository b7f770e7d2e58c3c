// Package redistest 为测试启动一个 Redis 容器，没有可用的 Docker 时跳过
package redistest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const image = "redis:7-alpine"

var (
	once     sync.Once
	shared   *redis.Client
	setupErr error
)

// Client 返回一个已清空的客户端，同一进程内共享容器
func Client(t *testing.T) *redis.Client {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(func() {
		shared, setupErr = start(context.Background())
	})
	require.NoError(t, setupErr)
	require.NoError(t, shared.FlushDB(context.Background()).Err())
	return shared
}

func start(ctx context.Context) (*redis.Client, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Ready to accept connections"),
				wait.ForListeningPort("6379/tcp"),
			).WithDeadline(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "启动 redis 容器失败")
	}
	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "连接 redis 容器失败")
	}
	return client, nil
}
