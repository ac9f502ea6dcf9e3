package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fmandres92/schoolmate-backend-sub002/config"
)

// NewLogger 根据配置初始化 Zap 日志实例，每条日志附带 service 与 env 字段
// format 为空时开发环境用 console，其余环境用 json
func NewLogger(cfg *config.LogConfig, env string) (*zap.Logger, error) {
	format := cfg.Format
	if format == "" {
		format = "json"
		if env == "development" {
			format = "console"
		}
	}

	var zapCfg zap.Config
	switch format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "json":
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "ts"
	default:
		return nil, fmt.Errorf("无效的日志格式 %q，应为 json 或 console", cfg.Format)
	}
	// 时间统一为 ISO8601
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.InitialFields = map[string]interface{}{"env": env}
	if cfg.Service != "" {
		zapCfg.InitialFields["service"] = cfg.Service
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("初始化日志器失败: %w", err)
	}
	return logger, nil
}
