package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Log        LogConfig        `mapstructure:"log"`
	Clock      ClockConfig      `mapstructure:"clock"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Compliance ComplianceConfig `mapstructure:"compliance"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	Env          string     `mapstructure:"env"` // development | staging | production
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// IsProduction 是否为生产环境
func (c *ServerConfig) IsProduction() bool { return c.Env == "production" }

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（限流）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置（Token 由外部认证服务签发，本服务只校验）
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"` // json | console，留空按 server.env 推断
	Service string `mapstructure:"service"`
}

// ClockConfig 时钟配置
type ClockConfig struct {
	Timezone string `mapstructure:"timezone"`
	// FixedNow 冻结当前时间（RFC3339），仅限非生产环境做演示/联调
	FixedNow string `mapstructure:"fixed_now"`
}

// ScheduleConfig 课表配置
type ScheduleConfig struct {
	DayStart     string `mapstructure:"day_start"`     // "08:00"
	DayEnd       string `mapstructure:"day_end"`       // "17:00"
	BlockMinutes int    `mapstructure:"block_minutes"` // 单个课时长度
}

// AttendanceConfig 考勤配置
type AttendanceConfig struct {
	CaptureMarginMinutes int `mapstructure:"capture_margin_minutes"`
	RateLimitPerMinute   int `mapstructure:"rate_limit_per_minute"`
}

// ComplianceConfig 考勤合规看板配置
type ComplianceConfig struct {
	PendingDetailLimit int `mapstructure:"pending_detail_limit"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "schoolmate")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Santiago")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
	v.SetDefault("log.service", "schoolmate-compliance")

	v.SetDefault("clock.timezone", "America/Santiago")
	v.SetDefault("clock.fixed_now", "")

	v.SetDefault("schedule.day_start", "08:00")
	v.SetDefault("schedule.day_end", "17:00")
	v.SetDefault("schedule.block_minutes", 60)

	v.SetDefault("attendance.capture_margin_minutes", 15)
	v.SetDefault("attendance.rate_limit_per_minute", 30)

	v.SetDefault("compliance.pending_detail_limit", 3)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("SCHOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if _, err := time.LoadLocation(c.Clock.Timezone); err != nil {
		return fmt.Errorf("配置校验失败: clock.timezone 无效: %w", err)
	}
	if c.Clock.FixedNow != "" && c.Server.IsProduction() {
		return fmt.Errorf("配置校验失败: 生产环境不允许设置 clock.fixed_now")
	}
	start, err := time.Parse("15:04", c.Schedule.DayStart)
	if err != nil {
		return fmt.Errorf("配置校验失败: schedule.day_start 格式应为 HH:MM")
	}
	end, err := time.Parse("15:04", c.Schedule.DayEnd)
	if err != nil {
		return fmt.Errorf("配置校验失败: schedule.day_end 格式应为 HH:MM")
	}
	if !end.After(start) {
		return fmt.Errorf("配置校验失败: schedule.day_end 必须晚于 schedule.day_start")
	}
	if c.Schedule.BlockMinutes <= 0 {
		return fmt.Errorf("配置校验失败: schedule.block_minutes 必须大于 0")
	}
	if c.Attendance.CaptureMarginMinutes < 0 {
		return fmt.Errorf("配置校验失败: attendance.capture_margin_minutes 不能为负数")
	}
	if c.Compliance.PendingDetailLimit <= 0 {
		return fmt.Errorf("配置校验失败: compliance.pending_detail_limit 必须大于 0")
	}
	return nil
}
