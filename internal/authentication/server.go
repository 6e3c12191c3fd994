package authentication

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

// Server は認証サービスのgRPCサーバー。
type Server struct {
	// grpcServer はサービスを登録済みのgRPCサーバー。
	grpcServer *grpc.Server
	// db はユーザーディレクトリのSQLite接続。
	db *sql.DB
	// port はサーバーのリッスンポート。
	port string
	// logger はサーバーのロガー。
	logger zerolog.Logger
}

// NewServer は新しい認証サーバーを生成する。
// ユーザーディレクトリを開き、マイグレーションを適用する。
func NewServer(ctx context.Context, cfg Config, logger zerolog.Logger) (*Server, error) {
	db, users, err := userstore.Open(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("ユーザーディレクトリの初期化に失敗: %w", err)
	}

	svc := NewService(users, NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshThreshold), logger)
	grpcServer := rpc.NewServer(logger)
	rpc.RegisterAuthenticationServer(grpcServer, svc)

	return &Server{
		grpcServer: grpcServer,
		db:         db,
		port:       cfg.Port,
		logger:     logger,
	}, nil
}

// Run はgRPCサーバーを起動し、ctxがキャンセルされるまでブロックする。
func (s *Server) Run(ctx context.Context) error {
	defer func() { _ = s.db.Close() }()

	lis, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return fmt.Errorf("ポート %s のリッスンに失敗: %w", s.port, err)
	}
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("認証サービスを起動")
	return rpc.Serve(ctx, s.grpcServer, lis)
}
