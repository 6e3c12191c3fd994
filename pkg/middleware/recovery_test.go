package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// decodeError はレスポンスボディのerrorフィールドを取り出すヘルパー関数。
func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスボディのパースに失敗: %v", err)
	}
	return body["error"]
}

// TestRecovery はRecoveryミドルウェアを検証する。
func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("パニックが発生した場合500が返ること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(zerolog.Nop()))
		router.GET("/panic", func(_ *gin.Context) {
			panic("テスト用パニック")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		if got := decodeError(t, w); got != genericInternalError {
			t.Errorf("error = %q, want %q", got, genericInternalError)
		}
	})

	t.Run("文字列以外のパニック値でも500が返ること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(zerolog.Nop()))
		router.GET("/panic-int", func(_ *gin.Context) {
			panic(42)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic-int", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})

	t.Run("パニックが発生しない場合は正常にレスポンスが返ること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(zerolog.Nop()))
		router.GET("/ok", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
	})
}

// TestErrorHandler はErrorHandlerミドルウェアを検証する。
func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "内部エラーは詳細を含まない500になること",
			err:        errors.New("secret detail"),
			wantStatus: http.StatusInternalServerError,
			wantError:  genericInternalError,
		},
		{
			name:       "4xxのHTTPErrorはそのまま返ること",
			err:        &HTTPError{Status: http.StatusRequestEntityTooLarge, Message: "Payload Too Large"},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "Payload Too Large",
		},
		{
			name:       "5xxのHTTPErrorは汎用の500になること",
			err:        &HTTPError{Status: http.StatusBadGateway, Message: "upstream"},
			wantStatus: http.StatusInternalServerError,
			wantError:  genericInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := gin.New()
			router.Use(ErrorHandler(zerolog.Nop()))
			router.GET("/fail", func(c *gin.Context) {
				_ = c.Error(tt.err)
				c.Abort()
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := decodeError(t, w); got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
		})
	}

	t.Run("ハンドラが応答済みの場合は上書きしないこと", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(ErrorHandler(zerolog.Nop()))
		router.GET("/written", func(c *gin.Context) {
			_ = c.Error(errors.New("ignored"))
			c.JSON(http.StatusBadRequest, gin.H{"error": "handled"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if got := decodeError(t, w); got != "handled" {
			t.Errorf("error = %q, want %q", got, "handled")
		}
	})
}

// TestNotFound はNotFoundハンドラを検証する。
func TestNotFound(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.NoRoute(NotFound())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusNotFound)
	}
	if got := decodeError(t, w); got != "Not Found" {
		t.Errorf("error = %q, want %q", got, "Not Found")
	}
}
