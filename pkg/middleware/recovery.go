package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// genericInternalError はフォールバック応答の本文。内部の詳細は含めない。
const genericInternalError = "Internal Server Error"

// HTTPError はステータスコードを伴うミドルウェア起因のエラー。
// ErrorHandler は4xxのHTTPErrorのみそのまま応答し、それ以外は汎用の500に置き換える。
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// パニック発生時にログを出力し、詳細を含まない500エラーを返す。
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Msg("パニックから回復")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": genericInternalError,
				})
			}
		}()
		c.Next()
	}
}

// ErrorHandler はハンドラが応答せずにc.Errorで記録したエラーを処理するGinミドルウェアを返す。
// 不正なJSONボディなど、ハンドラで個別に扱わないエラーの最終的な受け皿となる。
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Status >= 400 && httpErr.Status < 500 {
			c.JSON(httpErr.Status, gin.H{"error": httpErr.Message})
			return
		}

		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("未処理のエラー")
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericInternalError})
	}
}

// NotFound は未定義のルートに対する404応答を返すハンドラ。
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	}
}
