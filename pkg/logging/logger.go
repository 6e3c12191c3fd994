// Package logging は全サービス共通の構造化ログ設定を提供する。
package logging

import (
	"io"
	"os"
	"time"

	"github.com/nao1215/paygate/pkg/env"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config はログ出力の設定。
type Config struct {
	// Level はログレベル（debug, info, warn, error）。
	Level string
	// Pretty が true の場合は人が読みやすいコンソール形式で出力する。
	Pretty bool
	// Service はすべてのログ行に付与するサービス名。
	Service string
}

// ConfigFromEnv は LOG_LEVEL と LOG_PRETTY からログ設定を読み込む。
func ConfigFromEnv(service string) Config {
	return Config{
		Level:   env.String("LOG_LEVEL", "info"),
		Pretty:  env.Bool("LOG_PRETTY", false),
		Service: service,
	}
}

// SetupLogger はグローバルロガーを設定し、設定済みのロガーを返す。
func SetupLogger(cfg Config) zerolog.Logger {
	return setup(cfg, os.Stdout)
}

func setup(cfg Config, out io.Writer) zerolog.Logger {
	output := out
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	log.Logger = ctx.Logger()
	return log.Logger
}
