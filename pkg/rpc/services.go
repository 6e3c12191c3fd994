package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// バックエンドのgRPCサービス名。
const (
	AuthenticationServiceName = "com.services.schema.AuthenticationService"
	AuthorizationServiceName  = "com.services.schema.AuthorizationServiceService"
	TransactionServiceName    = "com.services.schema.TransactionServiceService"
)

// 呼び出し可能な操作のフルメソッド名。
const (
	MethodGenerateToken  = "/" + AuthenticationServiceName + "/generateToken"
	MethodValidateToken  = "/" + AuthenticationServiceName + "/validateToken"
	MethodValidateAccess = "/" + AuthorizationServiceName + "/validateAccess"
	MethodTransfer       = "/" + TransactionServiceName + "/transfer"
)

// AuthenticationClient は認証サービスのクライアント。
type AuthenticationClient struct {
	inv Invoker
}

// NewAuthenticationClient は認証サービスのクライアントを生成する。
func NewAuthenticationClient(inv Invoker) *AuthenticationClient {
	return &AuthenticationClient{inv: inv}
}

// GenerateToken はログイン情報を検証してトークンを発行させる。
func (c *AuthenticationClient) GenerateToken(ctx context.Context, in *GenerateTokenRequest) (*GenerateTokenResponse, error) {
	out := new(GenerateTokenResponse)
	if err := c.inv.Invoke(ctx, MethodGenerateToken, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateToken はトークンを検証させる。
func (c *AuthenticationClient) ValidateToken(ctx context.Context, in *ValidateTokenRequest) (*ValidateTokenResponse, error) {
	out := new(ValidateTokenResponse)
	if err := c.inv.Invoke(ctx, MethodValidateToken, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AuthorizationClient は認可サービスのクライアント。
type AuthorizationClient struct {
	inv Invoker
}

// NewAuthorizationClient は認可サービスのクライアントを生成する。
func NewAuthorizationClient(inv Invoker) *AuthorizationClient {
	return &AuthorizationClient{inv: inv}
}

// ValidateAccess は操作が許可されているかを問い合わせる。
func (c *AuthorizationClient) ValidateAccess(ctx context.Context, in *AuthorizeRequest) (*AuthorizeResponse, error) {
	out := new(AuthorizeResponse)
	if err := c.inv.Invoke(ctx, MethodValidateAccess, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransactionClient は取引サービスのクライアント。
type TransactionClient struct {
	inv Invoker
}

// NewTransactionClient は取引サービスのクライアントを生成する。
func NewTransactionClient(inv Invoker) *TransactionClient {
	return &TransactionClient{inv: inv}
}

// Transfer は送金を依頼する。
func (c *TransactionClient) Transfer(ctx context.Context, in *TransferRequest) (*TransferResponse, error) {
	out := new(TransferResponse)
	if err := c.inv.Invoke(ctx, MethodTransfer, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AuthenticationServer は認証サービスの実装が満たすインターフェース。
type AuthenticationServer interface {
	GenerateToken(ctx context.Context, in *GenerateTokenRequest) (*GenerateTokenResponse, error)
	ValidateToken(ctx context.Context, in *ValidateTokenRequest) (*ValidateTokenResponse, error)
}

// AuthorizationServer は認可サービスの実装が満たすインターフェース。
type AuthorizationServer interface {
	ValidateAccess(ctx context.Context, in *AuthorizeRequest) (*AuthorizeResponse, error)
}

// TransactionServer は取引サービスの実装が満たすインターフェース。
type TransactionServer interface {
	Transfer(ctx context.Context, in *TransferRequest) (*TransferResponse, error)
}

// RegisterAuthenticationServer は認証サービスをgRPCサーバーに登録する。
func RegisterAuthenticationServer(s grpc.ServiceRegistrar, srv AuthenticationServer) {
	s.RegisterService(&authenticationServiceDesc, srv)
}

// RegisterAuthorizationServer は認可サービスをgRPCサーバーに登録する。
func RegisterAuthorizationServer(s grpc.ServiceRegistrar, srv AuthorizationServer) {
	s.RegisterService(&authorizationServiceDesc, srv)
}

// RegisterTransactionServer は取引サービスをgRPCサーバーに登録する。
func RegisterTransactionServer(s grpc.ServiceRegistrar, srv TransactionServer) {
	s.RegisterService(&transactionServiceDesc, srv)
}

var authenticationServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthenticationServiceName,
	HandlerType: (*AuthenticationServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "generateToken",
			Handler: unaryHandler(MethodGenerateToken, func(srv any, ctx context.Context, in *GenerateTokenRequest) (*GenerateTokenResponse, error) {
				return srv.(AuthenticationServer).GenerateToken(ctx, in)
			}),
		},
		{
			MethodName: "validateToken",
			Handler: unaryHandler(MethodValidateToken, func(srv any, ctx context.Context, in *ValidateTokenRequest) (*ValidateTokenResponse, error) {
				return srv.(AuthenticationServer).ValidateToken(ctx, in)
			}),
		},
	},
}

var authorizationServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthorizationServiceName,
	HandlerType: (*AuthorizationServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "validateAccess",
			Handler: unaryHandler(MethodValidateAccess, func(srv any, ctx context.Context, in *AuthorizeRequest) (*AuthorizeResponse, error) {
				return srv.(AuthorizationServer).ValidateAccess(ctx, in)
			}),
		},
	},
}

var transactionServiceDesc = grpc.ServiceDesc{
	ServiceName: TransactionServiceName,
	HandlerType: (*TransactionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "transfer",
			Handler: unaryHandler(MethodTransfer, func(srv any, ctx context.Context, in *TransferRequest) (*TransferResponse, error) {
				return srv.(TransactionServer).Transfer(ctx, in)
			}),
		},
	},
}

// unaryHandler は型付きの呼び出し関数をgRPCのMethodHandlerに変換する。
func unaryHandler[Req any, PReq interface {
	*Req
	Message
}, Resp Message](fullMethod string, call func(srv any, ctx context.Context, in PReq) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv, ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}
