package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 CLUB_DATABASE_HOST
const EnvPrefix = "CLUB"

var (
	cfg  *Config
	once sync.Once
)

// Init 加载全局配置，优先级：环境变量 > config.yaml > 默认值
func Init() {
	once.Do(func() {
		path := os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "config.yaml"
		}
		c, err := Load(path)
		if err != nil {
			panic(err)
		}
		cfg = c
	})
}

// Get 获取全局配置，未初始化时自动初始化
func Get() *Config {
	if cfg == nil {
		Init()
	}
	return cfg
}

// Set 替换全局配置，仅用于测试和命令行覆盖
func Set(c *Config) {
	once.Do(func() {})
	cfg = c
}

// Load 从指定的 yaml 文件和环境变量构建配置
// 文件不存在时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	// .env 仅在本地开发时存在，加载失败不影响启动
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "读取配置文件 %s 失败", path)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "解析配置文件失败")
	}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, errors.Wrap(err, "读取环境变量失败")
	}
	normalize(c)
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("prefix", "api")
	v.SetDefault("mode", string(ModeDebug))
	v.SetDefault("storage.home", "./storage")
	v.SetDefault("storage.base_url", "/static")
	v.SetDefault("database.driver", string(DriverMySQL))
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.db_name", "club")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("jwt.access_expire", 3600)
	v.SetDefault("jwt.refresh_expire", 14*24*3600)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("notify.timeout_sec", 5)
	v.SetDefault("rate_limit.per_minute", 30)
	v.SetDefault("rate_limit.burst", 10)
}

func normalize(c *Config) {
	c.Mode = Mode(strings.ToLower(string(c.Mode)))
	if c.Mode != ModeRelease {
		c.Mode = ModeDebug
	}
	c.Database.Driver = DBDriver(strings.ToLower(string(c.Database.Driver)))
	c.Prefix = strings.Trim(c.Prefix, "/")
}
