package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// newBodyRouter はErrorHandlerとBodyParserを適用したテスト用ルーターを生成する。
// ハンドラは保存された本文をそのまま返す。
func newBodyRouter(maxBytes int64) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler(zerolog.Nop()))
	router.Use(BodyParser(maxBytes))
	handler := func(c *gin.Context) {
		c.String(http.StatusOK, string(Body(c)))
	}
	router.POST("/echo", handler)
	router.GET("/echo", handler)
	return router
}

// TestBodyParser はBodyParserミドルウェアを検証する。
func TestBodyParser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		maxBytes    int64
		wantStatus  int
		wantBody    string
	}{
		{
			name:        "JSON本文が保存されること",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"a":1}`,
			wantStatus:  http.StatusOK,
			wantBody:    `{"a":1}`,
		},
		{
			name:        "GETリクエストのJSON本文も保存されること",
			method:      http.MethodGet,
			contentType: "application/json; charset=utf-8",
			body:        `{"operation":"Transfer"}`,
			wantStatus:  http.StatusOK,
			wantBody:    `{"operation":"Transfer"}`,
		},
		{
			name:        "JSON以外のContent-Typeの本文は破棄されること",
			method:      http.MethodPost,
			contentType: "text/plain",
			body:        `{"a":1}`,
			wantStatus:  http.StatusOK,
			wantBody:    "",
		},
		{
			name:        "空の本文は正常に通過すること",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        "",
			wantStatus:  http.StatusOK,
			wantBody:    "",
		},
		{
			name:        "不正なJSONは汎用の500になること",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"a":`,
			wantStatus:  http.StatusInternalServerError,
			wantBody:    `{"error":"Internal Server Error"}`,
		},
		{
			name:        "上限を超える本文は413になること",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"a":"` + strings.Repeat("x", 64) + `"}`,
			maxBytes:    16,
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantBody:    `{"error":"Payload Too Large"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/echo", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			newBodyRouter(tt.maxBytes).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Body.String(); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}
