package authentication

import (
	"time"

	"github.com/nao1215/paygate/pkg/env"
)

// Config は認証サービスの設定。
type Config struct {
	// Port はgRPCサーバーのリッスンポート。
	Port string
	// DatabasePath はユーザーディレクトリのSQLiteファイルのパス。
	DatabasePath string
	// JWTSecret はJWT署名用の秘密鍵。
	JWTSecret string
	// TokenTTL は発行するトークンの有効期間。
	TokenTTL time.Duration
	// RefreshThreshold は残り有効期間がこれ以下のトークンを検証時に再発行する閾値。
	RefreshThreshold time.Duration
}

// LoadConfig は環境変数から設定を読み込む。
func LoadConfig() Config {
	return Config{
		Port:             env.String("PORT", "8080"),
		DatabasePath:     env.String("DATABASE_PATH", "/data/authentication.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),
		JWTSecret:        env.String("JWT_SECRET", "dev-secret-key"),
		TokenTTL:         env.Duration("TOKEN_TTL", 5*time.Minute),
		RefreshThreshold: env.Duration("TOKEN_REFRESH_THRESHOLD", 3*time.Minute),
	}
}
