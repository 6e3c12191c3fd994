package authorization

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/paygate/pkg/rpc"
	"github.com/nao1215/paygate/pkg/userstore"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// クライアントに返すエラーメッセージ。
const (
	msgMissingOperation = "Operation must be provided."
	msgUserNotFound     = "User not found."
	msgInternal         = "Internal server error."
)

// TokenValidator はトークンを検証する認証サービスのクライアント。
type TokenValidator interface {
	ValidateToken(ctx context.Context, in *rpc.ValidateTokenRequest) (*rpc.ValidateTokenResponse, error)
}

// UserFinder はUIDによるユーザー検索。
type UserFinder interface {
	FindByUID(ctx context.Context, uid string) (*userstore.User, error)
}

// Policies は操作の許可判定。
type Policies interface {
	Allowed(ctx context.Context, operation, country string) (bool, error)
}

// Service は認可サービスのgRPC実装。
type Service struct {
	auth     TokenValidator
	users    UserFinder
	policies Policies
	logger   zerolog.Logger
}

var _ rpc.AuthorizationServer = (*Service)(nil)

// NewService は新しい認可サービスを生成する。
func NewService(auth TokenValidator, users UserFinder, policies Policies, logger zerolog.Logger) *Service {
	return &Service{auth: auth, users: users, policies: policies, logger: logger}
}

// ValidateAccess はトークンの持ち主に操作が許可されているかを判定する。
// 認証サービスの失敗はステータスを保ったまま呼び出し元へ返す。
// 許可されない場合もエラーではなく successful=false の応答を返す。
func (s *Service) ValidateAccess(ctx context.Context, in *rpc.AuthorizeRequest) (*rpc.AuthorizeResponse, error) {
	if in.Operation == "" {
		return nil, status.Error(codes.InvalidArgument, msgMissingOperation)
	}

	validated, err := s.auth.ValidateToken(ctx, &rpc.ValidateTokenRequest{JWT: in.JWT})
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUID(ctx, validated.UID)
	if errors.Is(err, userstore.ErrUserNotFound) {
		return nil, status.Error(codes.NotFound, msgUserNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("uid", validated.UID).Msg("ユーザーの検索に失敗")
		return nil, status.Error(codes.Internal, msgInternal)
	}

	allowed, err := s.policies.Allowed(ctx, in.Operation, user.Country)
	if err != nil {
		s.logger.Error().Err(err).Str("operation", in.Operation).Msg("認可ポリシーの判定に失敗")
		return nil, status.Error(codes.Internal, msgInternal)
	}

	message := fmt.Sprintf("%s not authorized", in.Operation)
	if allowed {
		message = fmt.Sprintf("%s authorized", in.Operation)
	}
	s.logger.Debug().
		Str("uid", user.UID).
		Str("operation", in.Operation).
		Bool("allowed", allowed).
		Msg("認可判定")

	return &rpc.AuthorizeResponse{
		Successful: allowed,
		Message:    message,
		JWT:        validated.JWT,
	}, nil
}
