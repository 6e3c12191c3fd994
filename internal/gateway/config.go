package gateway

import (
	"time"

	"github.com/nao1215/paygate/pkg/env"
	"github.com/nao1215/paygate/pkg/middleware"
)

// Config はゲートウェイの設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// AuthenticationAddr は認証サービスのアドレス。
	AuthenticationAddr string
	// AuthorizationAddr は認可サービスのアドレス。
	AuthorizationAddr string
	// TransactionAddr は送金サービスのアドレス。
	TransactionAddr string
	// BackendTimeout はバックエンド呼び出し1回あたりのタイムアウト。
	BackendTimeout time.Duration
	// RateLimitMax は1ウィンドウ内にクライアントIPごとに許可するリクエスト数。
	RateLimitMax int
	// RateLimitWindow はレートリミットのウィンドウ幅。
	RateLimitWindow time.Duration
	// RedisAddr はレートリミットのカウンタを共有するRedisのアドレス。空ならプロセス内で保持する。
	RedisAddr string
	// MaxBodyBytes はリクエストボディの上限バイト数。
	MaxBodyBytes int64
	// TrustedProxies はX-Forwarded-Forを信頼するプロキシのIPまたはCIDR。
	// 空の場合はどのプロキシも信頼せず、接続元アドレスをクライアントIPとする。
	TrustedProxies []string
}

// LoadConfig は環境変数から設定を読み込む。
func LoadConfig() Config {
	return Config{
		Port:               env.String("PORT", "3000"),
		AuthenticationAddr: env.String("AUTHENTICATION_ADDR", "localhost:8080"),
		AuthorizationAddr:  env.String("AUTHORIZATION_ADDR", "localhost:8081"),
		TransactionAddr:    env.String("TRANSACTION_ADDR", "localhost:8082"),
		BackendTimeout:     env.Duration("BACKEND_TIMEOUT", 10*time.Second),
		RateLimitMax:       env.Int("RATE_LIMIT_MAX", 100),
		RateLimitWindow:    env.Duration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RedisAddr:          env.String("REDIS_ADDR", ""),
		MaxBodyBytes:       int64(env.Int("MAX_BODY_BYTES", int(middleware.DefaultMaxBodyBytes))),
		TrustedProxies:     env.Strings("TRUSTED_PROXIES", nil),
	}
}
