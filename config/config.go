package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host      string    `split_words:"true" mapstructure:"host"`
	Port      string    `split_words:"true" mapstructure:"port"`
	Domain    string    `split_words:"true" mapstructure:"domain"`
	Prefix    string    `split_words:"true" mapstructure:"prefix"`
	Mode      Mode      `split_words:"true" mapstructure:"mode"`
	Storage   Storage   `mapstructure:"storage"`
	Database  Database  `mapstructure:"database"`
	Redis     Redis     `mapstructure:"redis"`
	JWT       JWT       `mapstructure:"jwt"`
	Log       Log       `mapstructure:"log"`
	Sentry    Sentry    `mapstructure:"sentry"`
	S3        S3        `mapstructure:"s3"`
	Notify    Notify    `mapstructure:"notify"`
	RateLimit RateLimit `mapstructure:"rate_limit" split_words:"true"`
}

// Storage 本地文件存储，未配置 S3 时使用
type Storage struct {
	Home    string `split_words:"true" mapstructure:"home"`
	BaseURL string `split_words:"true" mapstructure:"base_url"`
}

type S3 struct {
	Endpoint        string `split_words:"true" mapstructure:"endpoint"`
	BaseURL         string `split_words:"true" mapstructure:"base_url"`
	Bucket          string `split_words:"true" mapstructure:"bucket"`
	Region          string `split_words:"true" mapstructure:"region"`
	AccessKey       string `split_words:"true" mapstructure:"access_key"`
	SecretAccessKey string `split_words:"true" mapstructure:"secret_key"`
	Prefix          string `split_words:"true" mapstructure:"prefix"`
	UsePathStyle    bool   `split_words:"true" mapstructure:"path_style"`
}

type DBDriver string

const (
	DriverMySQL    DBDriver = "mysql"
	DriverPostgres DBDriver = "postgres"
)

type Database struct {
	Driver       DBDriver `split_words:"true" mapstructure:"driver"`
	Host         string   `split_words:"true" mapstructure:"host"`
	Port         string   `split_words:"true" mapstructure:"port"`
	Username     string   `split_words:"true" mapstructure:"username"`
	Password     string   `split_words:"true" mapstructure:"password"`
	DBName       string   `split_words:"true" mapstructure:"db_name"`
	SSLMode      string   `split_words:"true" mapstructure:"ssl_mode"`
	AutoMigrate  bool     `split_words:"true" mapstructure:"auto_migrate"`
	MaxOpenConns int      `split_words:"true" mapstructure:"max_open_conns"`
	MaxIdleConns int      `split_words:"true" mapstructure:"max_idle_conns"`
}

type Redis struct {
	Host     string `split_words:"true" mapstructure:"host"`
	Port     string `split_words:"true" mapstructure:"port"`
	Password string `split_words:"true" mapstructure:"password"`
	DB       int    `split_words:"true" mapstructure:"db"`
}

type JWT struct {
	AccessSecret  string `split_words:"true" mapstructure:"access_secret"`
	AccessExpire  int64  `split_words:"true" mapstructure:"access_expire"`  // 访问令牌有效期（秒）
	RefreshExpire int64  `split_words:"true" mapstructure:"refresh_expire"` // 刷新令牌有效期（秒）
}

type Log struct {
	FilePath   string `split_words:"true" mapstructure:"file_path"`   // 日志文件路径
	Level      string `split_words:"true" mapstructure:"level"`       // 日志级别：debug, info, warn, error
	MaxSize    int    `split_words:"true" mapstructure:"max_size"`    // 日志文件最大大小（MB）
	MaxBackups int    `split_words:"true" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `split_words:"true" mapstructure:"max_age"`     // 日志文件保留天数
	Compress   bool   `split_words:"true" mapstructure:"compress"`    // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string        `split_words:"true" mapstructure:"dsn"`
	Environment string        `split_words:"true" mapstructure:"environment"`
	SampleRate  float64       `split_words:"true" mapstructure:"sample_rate"` // 性能追踪采样率
	Tracing     SentryTracing `mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int  `split_words:"true" mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int  `split_words:"true" mapstructure:"redis_slow_threshold_ms"`
	TraceHTTPCalls       bool `split_words:"true" mapstructure:"trace_http_calls"`
}

// Notify 新简历提交时的 webhook 通知
type Notify struct {
	WebhookURL string `split_words:"true" mapstructure:"webhook_url"`
	TimeoutSec int    `split_words:"true" mapstructure:"timeout_sec"`
}

// RateLimit 公开接口（登录、简历提交）的按 IP 限流
type RateLimit struct {
	PerMinute int `split_words:"true" mapstructure:"per_minute"`
	Burst     int `split_words:"true" mapstructure:"burst"`
}
