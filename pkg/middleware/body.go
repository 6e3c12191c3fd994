package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes はリクエストボディの既定の上限（1MiB）。
const DefaultMaxBodyBytes int64 = 1 << 20

// errMalformedBody は本文がJSONとして解釈できないことを表す。
var errMalformedBody = errors.New("request body is not valid JSON")

// BodyParser はJSONリクエストボディを読み込み、gin.BodyBytesKey に保存するGinミドルウェアを返す。
// Content-TypeがJSONでない本文は破棄する。GETリクエストの本文も対象とする。
// 上限を超える本文は413、JSONとして不正な本文はc.Errorに記録してErrorHandlerに委ねる。
func BodyParser(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody || !isJSON(c.ContentType()) {
			c.Next()
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				_ = c.Error(&HTTPError{Status: http.StatusRequestEntityTooLarge, Message: "Payload Too Large"})
			} else {
				_ = c.Error(fmt.Errorf("リクエストボディの読み込みに失敗: %w", err))
			}
			c.Abort()
			return
		}

		if len(body) > 0 && !json.Valid(body) {
			_ = c.Error(errMalformedBody)
			c.Abort()
			return
		}

		c.Set(gin.BodyBytesKey, body)
		c.Next()
	}
}

// Body はBodyParserが保存したリクエストボディを返す。本文が無ければnilを返す。
func Body(c *gin.Context) []byte {
	v, ok := c.Get(gin.BodyBytesKey)
	if !ok {
		return nil
	}
	b, _ := v.([]byte)
	return b
}

// isJSON はContent-TypeがJSONを表すかを判定する。
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
