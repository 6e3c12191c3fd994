// 認証サービスのエントリポイント。
// メールアドレスまたは電話番号とパスワードでJWTを発行し、JWTの検証と更新を行う。
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/nao1215/paygate/internal/authentication"
	"github.com/nao1215/paygate/pkg/env"
	"github.com/nao1215/paygate/pkg/logging"
)

func main() {
	envErr := env.Load()
	logger := logging.SetupLogger(logging.ConfigFromEnv("authentication"))
	if envErr != nil {
		logger.Warn().Err(envErr).Msg(".envファイルを読み込めなかったため環境変数のみを使用")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := authentication.NewServer(ctx, authentication.LoadConfig(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("認証サーバーの初期化に失敗")
	}

	if err := server.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("認証サービスの起動に失敗")
	}
}
