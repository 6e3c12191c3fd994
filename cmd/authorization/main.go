// 認可サービスのエントリポイント。
// トークンの持ち主の国と操作の組み合わせから、操作が許可されるかを判定する。
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/nao1215/paygate/internal/authorization"
	"github.com/nao1215/paygate/pkg/env"
	"github.com/nao1215/paygate/pkg/logging"
)

func main() {
	envErr := env.Load()
	logger := logging.SetupLogger(logging.ConfigFromEnv("authorization"))
	if envErr != nil {
		logger.Warn().Err(envErr).Msg(".envファイルを読み込めなかったため環境変数のみを使用")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := authorization.NewServer(ctx, authorization.LoadConfig(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("認可サーバーの初期化に失敗")
	}

	if err := server.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("認可サービスの起動に失敗")
	}
}
