package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewServer はバックエンドサービス用のgRPCサーバーを生成する。
// 本パッケージのコーデックを使い、呼び出しごとのログ出力とパニック回復を行う。
func NewServer(logger zerolog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.ForceServerCodec(codec{}),
		grpc.ChainUnaryInterceptor(loggingInterceptor(logger), recoveryInterceptor(logger)),
	}
	return grpc.NewServer(append(base, opts...)...)
}

// shutdownTimeout はGracefulStopの完了を待つ最大時間。超えた場合は強制停止する。
const shutdownTimeout = 10 * time.Second

// Serve はlisでgRPCサーバーを起動し、ctxがキャンセルされるまでブロックする。
// キャンセル後は処理中の呼び出しの完了を待ってから停止する。
func Serve(ctx context.Context, srv *grpc.Server, lis net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPCサーバーの実行に失敗: %w", err)
		}
		return nil
	}

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		srv.Stop()
	}

	<-serveErr
	return nil
}

// loggingInterceptor は呼び出し結果をログに出力する。
func loggingInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := logger.Info()
		if code == codes.Internal || code == codes.Unknown {
			event = logger.Error()
		}
		event.Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("latency", time.Since(start)).
			Msg("gRPC呼び出し")
		return resp, err
	}
}

// recoveryInterceptor はハンドラのパニックを Internal エラーに変換する。
func recoveryInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Str("method", info.FullMethod).Interface("panic", r).Msg("[PANIC] gRPCハンドラ")
				err = status.Error(codes.Internal, defaultDetail)
			}
		}()
		return handler(ctx, req)
	}
}
