package authorization

import "github.com/nao1215/paygate/pkg/env"

// Config は認可サービスの設定。
type Config struct {
	// Port はgRPCサーバーのリッスンポート。
	Port string
	// DatabasePath はユーザーディレクトリと認可ポリシーのSQLiteファイルのパス。
	DatabasePath string
	// AuthenticationAddr は認証サービスのアドレス。
	AuthenticationAddr string
}

// LoadConfig は環境変数から設定を読み込む。
func LoadConfig() Config {
	return Config{
		Port:               env.String("PORT", "8081"),
		DatabasePath:       env.String("DATABASE_PATH", "/data/authorization.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),
		AuthenticationAddr: env.String("AUTHENTICATION_ADDR", "localhost:8080"),
	}
}
