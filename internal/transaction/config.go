package transaction

import "github.com/nao1215/paygate/pkg/env"

// Config は送金サービスの設定。
type Config struct {
	// Port はgRPCサーバーのリッスンポート。
	Port string
	// DatabasePath はユーザーディレクトリと台帳のSQLiteファイルのパス。
	DatabasePath string
	// AuthenticationAddr は認証サービスのアドレス。
	AuthenticationAddr string
	// AuthorizationAddr は認可サービスのアドレス。
	AuthorizationAddr string
}

// LoadConfig は環境変数から設定を読み込む。
func LoadConfig() Config {
	return Config{
		Port:               env.String("PORT", "8082"),
		DatabasePath:       env.String("DATABASE_PATH", "/data/transaction.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),
		AuthenticationAddr: env.String("AUTHENTICATION_ADDR", "localhost:8080"),
		AuthorizationAddr:  env.String("AUTHORIZATION_ADDR", "localhost:8081"),
	}
}
