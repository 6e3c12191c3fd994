package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TestRequestLogger はRequestLoggerミドルウェアを検証する。
func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("リクエストIDが無い場合はUUIDが採番されること", func(t *testing.T) {
		t.Parallel()

		var gotID string
		router := gin.New()
		router.Use(RequestLogger(zerolog.Nop()))
		router.GET("/test", func(c *gin.Context) {
			gotID = GetRequestID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		header := w.Header().Get(HeaderRequestID)
		if _, err := uuid.Parse(header); err != nil {
			t.Errorf("X-Request-ID = %q はUUIDではない: %v", header, err)
		}
		if gotID != header {
			t.Errorf("GetRequestID() = %q, want %q", gotID, header)
		}
	})

	t.Run("受け取ったリクエストIDがそのまま返ること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(RequestLogger(zerolog.Nop()))
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderRequestID, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get(HeaderRequestID); got != "req-123" {
			t.Errorf("X-Request-ID = %q, want %q", got, "req-123")
		}
	})

	t.Run("長すぎるリクエストIDは再採番されること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(RequestLogger(zerolog.Nop()))
		router.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		long := strings.Repeat("a", maxRequestIDLength+1)
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderRequestID, long)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get(HeaderRequestID); got == long {
			t.Error("長すぎるリクエストIDがそのまま返された")
		}
	})

	t.Run("ステータスに応じたレベルでログが出力されること", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		router := gin.New()
		router.Use(RequestLogger(zerolog.New(&buf)))
		router.GET("/fail", func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("ログのパースに失敗: %v", err)
		}
		if entry["level"] != "error" {
			t.Errorf("level = %v, want error", entry["level"])
		}
		if entry["path"] != "/fail" {
			t.Errorf("path = %v, want /fail", entry["path"])
		}
		if entry["status"] != float64(http.StatusInternalServerError) {
			t.Errorf("status = %v, want 500", entry["status"])
		}
	})
}
