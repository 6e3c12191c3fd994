package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nao1215/paygate/pkg/event"
	"github.com/nao1215/paygate/pkg/rpc"
	"github.com/nao1215/paygate/pkg/userstore"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// operationTransfer は送金の認可に使う操作名。
const operationTransfer = "Transfer"

// defaultNarration は送金の摘要。
const defaultNarration = "Transfer"

// クライアントに返すエラーメッセージ。
const (
	msgInvalidAmount    = "Amount must be greater than zero."
	msgMissingReceiver  = "Receiver account number must be provided."
	msgUserNotFound     = "User not found."
	msgReceiverNotFound = "Receiver account not found."
	msgSameAccount      = "Cannot transfer to the same account."
	msgInternal         = "Internal server error."
)

// TokenValidator はトークンを検証する認証サービスのクライアント。
type TokenValidator interface {
	ValidateToken(ctx context.Context, in *rpc.ValidateTokenRequest) (*rpc.ValidateTokenResponse, error)
}

// Authorizer は操作の可否を判定する認可サービスのクライアント。
type Authorizer interface {
	ValidateAccess(ctx context.Context, in *rpc.AuthorizeRequest) (*rpc.AuthorizeResponse, error)
}

// UserFinder は送金者と送金先の検索。
type UserFinder interface {
	FindByUID(ctx context.Context, uid string) (*userstore.User, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (*userstore.User, error)
}

// Recorder は送金とイベントの保存先。
type Recorder interface {
	RecordTransfer(ctx context.Context, tr Transfer, ev *event.Event) error
	RecordEvent(ctx context.Context, ev *event.Event) error
}

// Service は送金サービスのgRPC実装。
type Service struct {
	auth   TokenValidator
	authz  Authorizer
	users  UserFinder
	ledger Recorder
	logger zerolog.Logger
}

var _ rpc.TransactionServer = (*Service)(nil)

// NewService は新しい送金サービスを生成する。
func NewService(auth TokenValidator, authz Authorizer, users UserFinder, ledger Recorder, logger zerolog.Logger) *Service {
	return &Service{auth: auth, authz: authz, users: users, ledger: ledger, logger: logger}
}

// Transfer は送金を実行する。
// 認証・認可サービスの失敗はステータスを保ったまま呼び出し元へ返す。
func (s *Service) Transfer(ctx context.Context, in *rpc.TransferRequest) (*rpc.TransferResponse, error) {
	validated, err := s.auth.ValidateToken(ctx, &rpc.ValidateTokenRequest{JWT: in.JWT})
	if err != nil {
		return nil, err
	}

	if in.Amount <= 0 {
		return nil, status.Error(codes.InvalidArgument, msgInvalidAmount)
	}
	if in.ReceiverAccountNumber == "" {
		return nil, status.Error(codes.InvalidArgument, msgMissingReceiver)
	}

	access, err := s.authz.ValidateAccess(ctx, &rpc.AuthorizeRequest{
		Operation: operationTransfer,
		JWT:       validated.JWT,
	})
	if err != nil {
		return nil, err
	}
	if !access.Successful {
		s.recordRejection(ctx, validated.UID, in, access.Message)
		return nil, status.Error(codes.PermissionDenied, access.Message)
	}

	sender, err := s.users.FindByUID(ctx, validated.UID)
	if errors.Is(err, userstore.ErrUserNotFound) {
		return nil, status.Error(codes.NotFound, msgUserNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("uid", validated.UID).Msg("送金者の検索に失敗")
		return nil, status.Error(codes.Internal, msgInternal)
	}

	receiver, err := s.users.FindByAccountNumber(ctx, in.ReceiverAccountNumber)
	if errors.Is(err, userstore.ErrUserNotFound) {
		return nil, status.Error(codes.NotFound, msgReceiverNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("account_number", in.ReceiverAccountNumber).Msg("送金先の検索に失敗")
		return nil, status.Error(codes.Internal, msgInternal)
	}

	if sender.AccountNumber == receiver.AccountNumber {
		s.recordRejection(ctx, sender.UID, in, msgSameAccount)
		return nil, status.Error(codes.InvalidArgument, msgSameAccount)
	}

	tr := Transfer{
		RefID:                 uuid.New().String(),
		SenderUID:             sender.UID,
		SenderAccountNumber:   sender.AccountNumber,
		ReceiverAccountNumber: receiver.AccountNumber,
		Amount:                in.Amount,
		Narration:             defaultNarration,
	}
	ev, err := event.New(tr.RefID, event.TypeTransferCompleted, 1, event.TransferCompletedData{
		SenderUID:             tr.SenderUID,
		SenderAccountNumber:   tr.SenderAccountNumber,
		ReceiverAccountNumber: tr.ReceiverAccountNumber,
		Amount:                tr.Amount,
		Narration:             tr.Narration,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("送金イベントの生成に失敗")
		return nil, status.Error(codes.Internal, msgInternal)
	}
	if err := s.ledger.RecordTransfer(ctx, tr, ev); err != nil {
		s.logger.Error().Err(err).Str("ref_id", tr.RefID).Msg("送金の記録に失敗")
		return nil, status.Error(codes.Internal, msgInternal)
	}

	s.logger.Info().
		Str("ref_id", tr.RefID).
		Str("sender_uid", sender.UID).
		Float64("amount", tr.Amount).
		Msg("送金完了")

	return &rpc.TransferResponse{
		RefID:                 tr.RefID,
		Amount:                tr.Amount,
		SenderName:            sender.FullName(),
		ReceiverName:          receiver.FullName(),
		SenderAccountNumber:   sender.AccountNumber,
		ReceiverAccountNumber: receiver.AccountNumber,
		Narration:             tr.Narration,
		JWT:                   validated.JWT,
	}, nil
}

// recordRejection は拒否イベントを記録する。記録の失敗は送金結果に影響させない。
func (s *Service) recordRejection(ctx context.Context, uid string, in *rpc.TransferRequest, reason string) {
	ev, err := event.New(uuid.New().String(), event.TypeTransferRejected, 1, event.TransferRejectedData{
		SenderUID:             uid,
		ReceiverAccountNumber: in.ReceiverAccountNumber,
		Amount:                in.Amount,
		Reason:                reason,
	})
	if err == nil {
		err = s.ledger.RecordEvent(ctx, ev)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("uid", uid).Msg("拒否イベントの記録に失敗")
	}
}
