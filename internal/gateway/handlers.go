package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/nao1215/paygate/pkg/middleware"
	"github.com/nao1215/paygate/pkg/rpc"
)

// クライアントに返す固定メッセージ。
const (
	msgLoginFieldsRequired    = "Email or phone and password must be provided."
	msgTransferFieldsRequired = "Amount and receiver account number must be provided."
	msgOperationRequired      = "Operation must be provided."
	msgMissingCredential      = "JWT token must be provided in the Authorization header."
	msgValidateUnauthorized   = "Auth session expired or invalid JWT token."
	msgAuthorizeUnauthorized  = "Invalid or expired JWT token."
)

// errEmptyBody はリクエストボディが無いことを表す。
var errEmptyBody = errors.New("request body is empty")

// loginRequest はPOST /loginのリクエストボディ。
type loginRequest struct {
	EmailOrPhone string `json:"email_or_phone" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// transferRequest はPOST /transferのリクエストボディ。金額0は未指定として扱う。
type transferRequest struct {
	Amount                float64 `json:"amount" binding:"required"`
	ReceiverAccountNumber string  `json:"receiver_account_number" binding:"required"`
}

// authorizeRequest は /authorize のリクエストボディ。
type authorizeRequest struct {
	Operation string `json:"operation" binding:"required"`
}

// bindBody はBodyParserが保存した本文を構造体に読み込み、必須項目を検証する。
func bindBody(c *gin.Context, dst any) error {
	body := middleware.Body(c)
	if len(body) == 0 {
		return errEmptyBody
	}
	return binding.JSON.BindBody(body, dst)
}

// handleLogin はメールアドレスまたは電話番号とパスワードでトークンを発行するハンドラを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := bindBody(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgLoginFieldsRequired})
			return
		}

		resp, err := s.backends.Authentication.GenerateToken(c.Request.Context(), &rpc.GenerateTokenRequest{
			EmailOrPhone: req.EmailOrPhone,
			Password:     req.Password,
		})
		if err != nil {
			s.respondFailure(c, err, "")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// handleTransfer は送金を転送するハンドラを返す。
func (s *Server) handleTransfer() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transferRequest
		if err := bindBody(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgTransferFieldsRequired})
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		resp, err := s.backends.Transaction.Transfer(c.Request.Context(), &rpc.TransferRequest{
			JWT:                   token,
			Amount:                req.Amount,
			ReceiverAccountNumber: req.ReceiverAccountNumber,
		})
		if err != nil {
			s.respondFailure(c, err, "")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// handleValidate はトークンを検証するハンドラを返す。
func (s *Server) handleValidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		resp, err := s.backends.Authentication.ValidateToken(c.Request.Context(), &rpc.ValidateTokenRequest{JWT: token})
		if err != nil {
			s.respondFailure(c, err, msgValidateUnauthorized)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// handleAuthorize は操作の可否を問い合わせるハンドラを返す。
func (s *Server) handleAuthorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authorizeRequest
		if err := bindBody(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgOperationRequired})
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		resp, err := s.backends.Authorization.ValidateAccess(c.Request.Context(), &rpc.AuthorizeRequest{
			Operation: req.Operation,
			JWT:       token,
		})
		if err != nil {
			s.respondFailure(c, err, msgAuthorizeUnauthorized)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// bearerToken はAuthorizationヘッダーからトークンを取り出す。
// 取り出せない場合は400を応答してfalseを返す。
func bearerToken(c *gin.Context) (string, bool) {
	token, err := middleware.ExtractBearer(c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingCredential})
		return "", false
	}
	return token, true
}

// respondFailure はバックエンドの失敗をHTTP応答に変換する。
// unauthenticatedMsg が空のエンドポイントでは認証失敗も500として扱う。
func (s *Server) respondFailure(c *gin.Context, err error, unauthenticatedMsg string) {
	f := rpc.FromError(err)
	code, msg := failureResponse(f, unauthenticatedMsg)

	s.logger.Warn().
		Str("request_id", middleware.GetRequestID(c)).
		Str("path", c.Request.URL.Path).
		Stringer("kind", f.Kind).
		Str("code", f.Code.String()).
		Str("detail", f.Detail).
		Msg("バックエンド呼び出しが失敗")
	c.JSON(code, gin.H{"error": msg})
}

func failureResponse(f *rpc.Failure, unauthenticatedMsg string) (int, string) {
	switch f.Kind {
	case rpc.KindUnauthenticated:
		if unauthenticatedMsg != "" {
			return http.StatusUnauthorized, unauthenticatedMsg
		}
	case rpc.KindInvalidArgument, rpc.KindInternal:
	}
	return http.StatusInternalServerError, f.Detail
}
