package authorization

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

// Server は認可サービスのgRPCサーバー。
type Server struct {
	// grpcServer はサービスを登録済みのgRPCサーバー。
	grpcServer *grpc.Server
	// db はユーザーディレクトリと認可ポリシーのSQLite接続。
	db *sql.DB
	// authClient は認証サービスへのgRPCクライアント。
	authClient *rpc.Client
	// port はサーバーのリッスンポート。
	port string
	// logger はサーバーのロガー。
	logger zerolog.Logger
}

// NewServer は新しい認可サーバーを生成する。
func NewServer(ctx context.Context, cfg Config, logger zerolog.Logger) (*Server, error) {
	db, users, err := userstore.Open(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("ユーザーディレクトリの初期化に失敗: %w", err)
	}

	policies, err := NewPolicyStore(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	authClient, err := rpc.NewClient(cfg.AuthenticationAddr)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("認証サービスクライアントの生成に失敗: %w", err)
	}

	svc := NewService(rpc.NewAuthenticationClient(authClient), users, policies, logger)
	grpcServer := rpc.NewServer(logger)
	rpc.RegisterAuthorizationServer(grpcServer, svc)

	return &Server{
		grpcServer: grpcServer,
		db:         db,
		authClient: authClient,
		port:       cfg.Port,
		logger:     logger,
	}, nil
}

// Run はgRPCサーバーを起動し、ctxがキャンセルされるまでブロックする。
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		_ = s.authClient.Close()
		_ = s.db.Close()
	}()

	lis, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return fmt.Errorf("ポート %s のリッスンに失敗: %w", s.port, err)
	}
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("認可サービスを起動")
	return rpc.Serve(ctx, s.grpcServer, lis)
}
