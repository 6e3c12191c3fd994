package middleware

import (
	"errors"
	"regexp"
)

// ErrMissingCredential はAuthorizationヘッダーからBearerトークンを取り出せないことを表す。
var ErrMissingCredential = errors.New("bearer credential is missing")

// bearerPattern はAuthorizationヘッダーのBearer形式。スキーム名は大文字小文字を区別しない。
var bearerPattern = regexp.MustCompile(`(?i)^Bearer\s+(.+)$`)

// ExtractBearer はAuthorizationヘッダーの値からトークンを取り出す。
// トークンは検証や加工をせずそのまま返す。
func ExtractBearer(header string) (string, error) {
	m := bearerPattern.FindStringSubmatch(header)
	if m == nil {
		return "", ErrMissingCredential
	}
	return m[1], nil
}
