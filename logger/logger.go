package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bizbooks/config"
)

// Setup 根据配置初始化全局 zerolog
func Setup(cfg config.LogConfig) error {
	return SetupWriter(cfg, os.Stdout)
}

// SetupWriter 与 Setup 相同，但输出到指定 writer（测试用）
func SetupWriter(cfg config.LogConfig, out io.Writer) error {
	levelName := strings.ToLower(cfg.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	if strings.ToLower(cfg.Format) != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

// WithComponent 返回带 component 字段的子 logger
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
