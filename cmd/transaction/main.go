// 送金サービスのエントリポイント。
// 認証・認可を経た送金を台帳に記録する。
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/nao1215/paygate/internal/transaction"
	"github.com/nao1215/paygate/pkg/env"
	"github.com/nao1215/paygate/pkg/logging"
)

func main() {
	envErr := env.Load()
	logger := logging.SetupLogger(logging.ConfigFromEnv("transaction"))
	if envErr != nil {
		logger.Warn().Err(envErr).Msg(".envファイルを読み込めなかったため環境変数のみを使用")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := transaction.NewServer(ctx, transaction.LoadConfig(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("送金サーバーの初期化に失敗")
	}

	if err := server.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("送金サービスの起動に失敗")
	}
}
