package authentication

import (
	"context"
	"errors"

	"github.com/nao1215/paygate/pkg/rpc"
	"github.com/nao1215/paygate/pkg/userstore"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// クライアントに返すエラーメッセージ。
const (
	msgInvalidCredentials = "Invalid email/phone or password."
	msgSessionExpired     = "Auth session expired."
	msgInvalidToken       = "Invalid JWT token."
	msgInternal           = "Internal server error."
	msgMissingCredentials = "Email or phone and password must be provided."
	msgMissingToken       = "JWT token must be provided."
)

// UserFinder は認証に必要なユーザー検索。
type UserFinder interface {
	FindByEmailOrPhone(ctx context.Context, emailOrPhone string) (*userstore.User, error)
}

// Service は認証サービスのgRPC実装。
type Service struct {
	// users はユーザーディレクトリ。
	users UserFinder
	// tokens はJWTの発行と検証を行う。
	tokens *TokenIssuer
	// logger は内部エラーの記録に使う。
	logger zerolog.Logger
}

var _ rpc.AuthenticationServer = (*Service)(nil)

// NewService は新しい認証サービスを生成する。
func NewService(users UserFinder, tokens *TokenIssuer, logger zerolog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// GenerateToken はパスワードを照合し、成功すればトークンを発行する。
// ユーザーが存在しない場合とパスワードが一致しない場合は区別しない。
func (s *Service) GenerateToken(ctx context.Context, in *rpc.GenerateTokenRequest) (*rpc.GenerateTokenResponse, error) {
	if in.EmailOrPhone == "" || in.Password == "" {
		return nil, status.Error(codes.InvalidArgument, msgMissingCredentials)
	}

	user, err := s.users.FindByEmailOrPhone(ctx, in.EmailOrPhone)
	if errors.Is(err, userstore.ErrUserNotFound) {
		return nil, status.Error(codes.Unauthenticated, msgInvalidCredentials)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("ユーザーの検索に失敗")
		return nil, status.Error(codes.Internal, msgInternal)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(in.Password)); err != nil {
		return nil, status.Error(codes.Unauthenticated, msgInvalidCredentials)
	}

	token, err := s.tokens.IssueFor(user)
	if err != nil {
		s.logger.Error().Err(err).Str("uid", user.UID).Msg("トークンの発行に失敗")
		return nil, status.Error(codes.Internal, msgInternal)
	}

	return &rpc.GenerateTokenResponse{
		UID:       user.UID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		JWT:       token,
	}, nil
}

// ValidateToken はトークンを検証してUIDを返す。
// 残り有効期間が閾値以下の場合は新しいトークンを発行して返す。
func (s *Service) ValidateToken(_ context.Context, in *rpc.ValidateTokenRequest) (*rpc.ValidateTokenResponse, error) {
	if in.JWT == "" {
		return nil, status.Error(codes.Unauthenticated, msgMissingToken)
	}

	claims, err := s.tokens.Parse(in.JWT)
	switch {
	case errors.Is(err, ErrTokenExpired):
		return nil, status.Error(codes.Unauthenticated, msgSessionExpired)
	case err != nil:
		return nil, status.Error(codes.Unauthenticated, msgInvalidToken)
	}

	token := in.JWT
	if s.tokens.NeedsRefresh(claims) {
		token, err = s.tokens.Issue(claims.UID, claims.FirstName, claims.LastName)
		if err != nil {
			s.logger.Error().Err(err).Str("uid", claims.UID).Msg("トークンの再発行に失敗")
			return nil, status.Error(codes.Internal, msgInternal)
		}
	}

	return &rpc.ValidateTokenResponse{UID: claims.UID, JWT: token}, nil
}
