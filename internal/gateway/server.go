package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/paygate/pkg/metrics"
	"github.com/nao1215/paygate/pkg/middleware"
	"github.com/nao1215/paygate/pkg/rpc"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// shutdownTimeout はグレースフルシャットダウンで処理中のリクエストを待つ最大時間。
const shutdownTimeout = 10 * time.Second

// Authenticator は認証サービスの操作。
type Authenticator interface {
	GenerateToken(ctx context.Context, in *rpc.GenerateTokenRequest) (*rpc.GenerateTokenResponse, error)
	ValidateToken(ctx context.Context, in *rpc.ValidateTokenRequest) (*rpc.ValidateTokenResponse, error)
}

// Authorizer は認可サービスの操作。
type Authorizer interface {
	ValidateAccess(ctx context.Context, in *rpc.AuthorizeRequest) (*rpc.AuthorizeResponse, error)
}

// TransactionProcessor は送金サービスの操作。
type TransactionProcessor interface {
	Transfer(ctx context.Context, in *rpc.TransferRequest) (*rpc.TransferResponse, error)
}

// Backends はゲートウェイが呼び出すバックエンドの組。
type Backends struct {
	Authentication Authenticator
	Authorization  Authorizer
	Transaction    TransactionProcessor
}

// Server はAPI GatewayのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// backends はリクエストの転送先。
	backends Backends
	// metrics はPrometheusメトリクス。
	metrics *metrics.Metrics
	// closers は停止時に閉じる接続（gRPCクライアント、Redisクライアント）。
	closers []io.Closer
	// logger はサーバーのロガー。
	logger zerolog.Logger
}

// NewServer は新しいGatewayサーバーを生成する。
// バックエンドごとのgRPCクライアントはここで一度だけ生成し、全リクエストで共有する。
func NewServer(cfg Config, logger zerolog.Logger) (*Server, error) {
	m := metrics.New()
	clientOpts := []rpc.Option{
		rpc.WithTimeout(cfg.BackendTimeout),
		rpc.WithUnaryInterceptor(m.UnaryClientInterceptor()),
	}

	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	clients := make(map[string]*rpc.Client, 3)
	for _, addr := range []string{cfg.AuthenticationAddr, cfg.AuthorizationAddr, cfg.TransactionAddr} {
		if _, ok := clients[addr]; ok {
			continue
		}
		client, err := rpc.NewClient(addr, clientOpts...)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("バックエンドクライアントの生成に失敗: %w", err)
		}
		clients[addr] = client
		closers = append(closers, client)
	}

	var store middleware.RateLimitStore = middleware.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closers = append(closers, rdb)
		store = middleware.NewRedisStore(rdb)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("レートリミットのカウンタをRedisで共有")
	}

	backends := Backends{
		Authentication: rpc.NewAuthenticationClient(clients[cfg.AuthenticationAddr]),
		Authorization:  rpc.NewAuthorizationClient(clients[cfg.AuthorizationAddr]),
		Transaction:    rpc.NewTransactionClient(clients[cfg.TransactionAddr]),
	}

	s, err := newServer(cfg, logger, backends, store, m)
	if err != nil {
		closeAll()
		return nil, err
	}
	s.closers = closers
	return s, nil
}

// newServer は依存を注入してサーバーを組み立てる。
func newServer(cfg Config, logger zerolog.Logger, backends Backends, store middleware.RateLimitStore, m *metrics.Metrics) (*Server, error) {
	router := gin.New()
	// TrustedProxiesが空なら接続元アドレスをクライアントIPとする
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("信頼するプロキシの設定に失敗: %w", err)
	}
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger(logger))
	router.Use(m.Middleware())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Max:       cfg.RateLimitMax,
		Window:    cfg.RateLimitWindow,
		Store:     store,
		SkipPaths: []string{"/health", "/metrics"},
		OnLimited: m.RecordRateLimited,
	}, logger))
	router.Use(middleware.BodyParser(cfg.MaxBodyBytes))

	s := &Server{
		router:   router,
		port:     cfg.Port,
		backends: backends,
		metrics:  m,
		logger:   logger,
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.POST("/login", s.handleLogin())
	s.router.POST("/transfer", s.handleTransfer())
	s.router.GET("/validate", s.handleValidate())
	// 本文付きGETを送れないクライアント向けにPOSTも受け付ける
	s.router.GET("/authorize", s.handleAuthorize())
	s.router.POST("/authorize", s.handleAuthorize())

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router.NoRoute(middleware.NotFound())
}

// Handler はルーティング済みのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるまでブロックする。
// キャンセル後は処理中のリクエストの完了を待ってから接続を閉じる。
func (s *Server) Run(ctx context.Context) error {
	defer s.close()

	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("Gatewayサービスを起動")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Gatewayサービスを停止")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	return nil
}

func (s *Server) close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("接続のクローズに失敗")
		}
	}
}
