package authorization

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/paygate/pkg/rpc"
	"github.com/nao1215/paygate/pkg/userstore"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeValidator はトークンをそのままUIDとして扱うテスト用の認証クライアント。
// "expired" は認証サービスの期限切れ応答を模倣する。
type fakeValidator struct{}

func (fakeValidator) ValidateToken(_ context.Context, in *rpc.ValidateTokenRequest) (*rpc.ValidateTokenResponse, error) {
	if in.JWT == "expired" {
		return nil, rpc.FromError(status.Error(codes.Unauthenticated, "Auth session expired."))
	}
	return &rpc.ValidateTokenResponse{UID: in.JWT, JWT: "refreshed-" + in.JWT}, nil
}

// failingPolicies は常に失敗するポリシーストア。
type failingPolicies struct{}

func (failingPolicies) Allowed(context.Context, string, string) (bool, error) {
	return false, errors.New("db closed")
}

// setupTestService はインメモリSQLiteで認可サービスを構築する。
func setupTestService(t *testing.T) (*Service, *PolicyStore) {
	t.Helper()

	db, users, err := userstore.Open(context.Background(), ":memory:", zerolog.Nop())
	if err != nil {
		t.Fatalf("ユーザーディレクトリの作成に失敗: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	policies, err := NewPolicyStore(context.Background(), db, zerolog.Nop())
	if err != nil {
		t.Fatalf("PolicyStoreの作成に失敗: %v", err)
	}
	return NewService(fakeValidator{}, users, policies, zerolog.Nop()), policies
}

// TestValidateAccess は認可判定を検証する。
func TestValidateAccess(t *testing.T) {
	t.Parallel()

	svc, _ := setupTestService(t)

	tests := []struct {
		name           string
		req            *rpc.AuthorizeRequest
		wantSuccessful bool
		wantMessage    string
	}{
		{
			name:           "ナイジェリアのユーザーの送金は許可されること",
			req:            &rpc.AuthorizeRequest{Operation: "Transfer", JWT: "5m4R7C0d3r"},
			wantSuccessful: true,
			wantMessage:    "Transfer authorized",
		},
		{
			name:           "ガーナのユーザーの送金は許可されないこと",
			req:            &rpc.AuthorizeRequest{Operation: "Transfer", JWT: "R1chC0d3"},
			wantSuccessful: false,
			wantMessage:    "Transfer not authorized",
		},
		{
			name:           "ポリシーの無い操作は許可されないこと",
			req:            &rpc.AuthorizeRequest{Operation: "Withdraw", JWT: "5m4R7C0d3r"},
			wantSuccessful: false,
			wantMessage:    "Withdraw not authorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, err := svc.ValidateAccess(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("ValidateAccess()でエラーが発生: %v", err)
			}
			if resp.Successful != tt.wantSuccessful {
				t.Errorf("Successful = %v, want %v", resp.Successful, tt.wantSuccessful)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if resp.JWT != "refreshed-"+tt.req.JWT {
				t.Errorf("JWT = %q, 検証後のトークンが返されていない", resp.JWT)
			}
		})
	}

	errTests := []struct {
		name     string
		req      *rpc.AuthorizeRequest
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "認証サービスの失敗はステータスを保って返ること",
			req:      &rpc.AuthorizeRequest{Operation: "Transfer", JWT: "expired"},
			wantCode: codes.Unauthenticated,
			wantMsg:  "Auth session expired.",
		},
		{
			name:     "存在しないユーザーはNotFoundになること",
			req:      &rpc.AuthorizeRequest{Operation: "Transfer", JWT: "ghost"},
			wantCode: codes.NotFound,
			wantMsg:  msgUserNotFound,
		},
		{
			name:     "操作名が空の場合はInvalidArgumentになること",
			req:      &rpc.AuthorizeRequest{JWT: "5m4R7C0d3r"},
			wantCode: codes.InvalidArgument,
			wantMsg:  msgMissingOperation,
		},
	}

	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.ValidateAccess(context.Background(), tt.req)
			st, _ := status.FromError(err)
			if st.Code() != tt.wantCode {
				t.Errorf("コード = %v, want %v", st.Code(), tt.wantCode)
			}
			if st.Message() != tt.wantMsg {
				t.Errorf("メッセージ = %q, want %q", st.Message(), tt.wantMsg)
			}
		})
	}
}

// TestValidateAccessPolicyError はポリシー判定の失敗を検証する。
func TestValidateAccessPolicyError(t *testing.T) {
	t.Parallel()

	db, users, err := userstore.Open(context.Background(), ":memory:", zerolog.Nop())
	if err != nil {
		t.Fatalf("ユーザーディレクトリの作成に失敗: %v", err)
	}
	defer db.Close()

	svc := NewService(fakeValidator{}, users, failingPolicies{}, zerolog.Nop())
	_, err = svc.ValidateAccess(context.Background(), &rpc.AuthorizeRequest{Operation: "Transfer", JWT: "5m4R7C0d3r"})
	if status.Code(err) != codes.Internal {
		t.Errorf("コード = %v, want %v", status.Code(err), codes.Internal)
	}
}

// TestPolicyStore はポリシーの登録と判定を検証する。
func TestPolicyStore(t *testing.T) {
	t.Parallel()

	_, policies := setupTestService(t)
	ctx := context.Background()

	allowed, err := policies.Allowed(ctx, "Transfer", "Ghana")
	if err != nil {
		t.Fatalf("Allowed()でエラーが発生: %v", err)
	}
	if allowed {
		t.Fatal("登録前に許可されている")
	}

	for range 2 {
		if err := policies.Grant(ctx, "Transfer", "Ghana"); err != nil {
			t.Fatalf("Grant()でエラーが発生: %v", err)
		}
	}

	allowed, err = policies.Allowed(ctx, "Transfer", "Ghana")
	if err != nil {
		t.Fatalf("Allowed()でエラーが発生: %v", err)
	}
	if !allowed {
		t.Error("登録後に許可されていない")
	}
}
