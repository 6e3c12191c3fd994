// API Gatewayサービスのエントリポイント。
// 外部からアクセス可能な唯一のサービスであり、HTTPリクエストを検証して
// 認証・認可・送金の各バックエンドへgRPCで転送する。
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/nao1215/paygate/internal/gateway"
	"github.com/nao1215/paygate/pkg/env"
	"github.com/nao1215/paygate/pkg/logging"
)

func main() {
	envErr := env.Load()
	logger := logging.SetupLogger(logging.ConfigFromEnv("gateway"))
	if envErr != nil {
		logger.Warn().Err(envErr).Msg(".envファイルを読み込めなかったため環境変数のみを使用")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := gateway.NewServer(gateway.LoadConfig(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Gatewayサーバーの初期化に失敗")
	}

	if err := server.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Gatewayサービスの起動に失敗")
	}
}
