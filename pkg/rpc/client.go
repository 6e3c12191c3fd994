package rpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Invoker は名前付きのリモート操作を呼び出す能力。
// 返すエラーは必ず *Failure である。
type Invoker interface {
	Invoke(ctx context.Context, method string, in, out Message) error
}

// Client は1つのバックエンドアドレスに束縛されたgRPCクライアント。
// 接続は生成時に一度だけ作られ、並行するリクエスト間で共有される。
type Client struct {
	// address は接続先サービスのアドレス（host:port）。
	address string
	// conn は内部で使用するgRPC接続。
	conn *grpc.ClientConn
	// timeout は1回の呼び出しに許す最大時間。0なら呼び出し元のcontextに従う。
	timeout time.Duration
}

var _ Invoker = (*Client)(nil)

type clientOptions struct {
	timeout      time.Duration
	interceptors []grpc.UnaryClientInterceptor
	dialOptions  []grpc.DialOption
}

// Option はClientの生成オプション。
type Option func(*clientOptions)

// WithTimeout は1回の呼び出しのタイムアウトを設定する。
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithUnaryInterceptor はクライアントインターセプタを追加する。
func WithUnaryInterceptor(interceptors ...grpc.UnaryClientInterceptor) Option {
	return func(o *clientOptions) { o.interceptors = append(o.interceptors, interceptors...) }
}

// WithDialOptions は追加のgRPCダイヤルオプションを設定する。
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *clientOptions) { o.dialOptions = append(o.dialOptions, opts...) }
}

// NewClient は指定アドレスのバックエンドに対するクライアントを生成する。
// 接続は遅延して確立されるため、バックエンドが起動していなくても成功する。
func NewClient(address string, opts ...Option) (*Client, error) {
	o := clientOptions{timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(codec{})),
	}
	if len(o.interceptors) > 0 {
		dialOpts = append(dialOpts, grpc.WithChainUnaryInterceptor(o.interceptors...))
	}
	dialOpts = append(dialOpts, o.dialOptions...)

	conn, err := grpc.NewClient(address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("gRPCクライアントの生成に失敗: address=%s: %w", address, err)
	}
	return &Client{address: address, conn: conn, timeout: o.timeout}, nil
}

// Address は接続先アドレスを返す。
func (c *Client) Address() string {
	return c.address
}

// Invoke はmethodで指定した操作を呼び出し、結果をoutに格納する。
// リトライは行わない。失敗は *Failure として即座に返す。
func (c *Client) Invoke(ctx context.Context, method string, in, out Message) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return FromError(err)
	}
	return nil
}

// Close は接続を閉じる。
func (c *Client) Close() error {
	return c.conn.Close()
}
