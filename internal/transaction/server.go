package transaction

import (
	"context"
	"database/sql"
	"fmt"
	"net"

	"github.com/nao1215/paygate/pkg/rpc"
	"github.com/nao1215/paygate/pkg/userstore"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	_ "modernc.org/sqlite"
)

// Server は送金サービスのgRPCサーバー。
type Server struct {
	// grpcServer はサービスを登録済みのgRPCサーバー。
	grpcServer *grpc.Server
	// db はユーザーディレクトリと台帳のSQLite接続。
	db *sql.DB
	// authClient は認証サービスへのgRPCクライアント。
	authClient *rpc.Client
	// authzClient は認可サービスへのgRPCクライアント。
	authzClient *rpc.Client
	// port はサーバーのリッスンポート。
	port string
	// logger はサーバーのロガー。
	logger zerolog.Logger
}

// NewServer は新しい送金サーバーを生成する。
func NewServer(ctx context.Context, cfg Config, logger zerolog.Logger) (*Server, error) {
	db, users, err := userstore.Open(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("ユーザーディレクトリの初期化に失敗: %w", err)
	}

	ledger, err := NewLedger(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	authClient, err := rpc.NewClient(cfg.AuthenticationAddr)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("認証サービスクライアントの生成に失敗: %w", err)
	}
	authzClient, err := rpc.NewClient(cfg.AuthorizationAddr)
	if err != nil {
		_ = authClient.Close()
		_ = db.Close()
		return nil, fmt.Errorf("認可サービスクライアントの生成に失敗: %w", err)
	}

	svc := NewService(
		rpc.NewAuthenticationClient(authClient),
		rpc.NewAuthorizationClient(authzClient),
		users,
		ledger,
		logger,
	)
	grpcServer := rpc.NewServer(logger)
	rpc.RegisterTransactionServer(grpcServer, svc)

	return &Server{
		grpcServer:  grpcServer,
		db:          db,
		authClient:  authClient,
		authzClient: authzClient,
		port:        cfg.Port,
		logger:      logger,
	}, nil
}

// Run はgRPCサーバーを起動し、ctxがキャンセルされるまでブロックする。
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		_ = s.authzClient.Close()
		_ = s.authClient.Close()
		_ = s.db.Close()
	}()

	lis, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return fmt.Errorf("ポート %s のリッスンに失敗: %w", s.port, err)
	}
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("送金サービスを起動")
	return rpc.Serve(ctx, s.grpcServer, lis)
}
