package authentication

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nao1215/paygate/pkg/userstore"
)

var (
	// ErrTokenExpired はトークンの有効期限が切れていることを表す。
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid はトークンの形式、署名、クレームのいずれかが不正であることを表す。
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims は発行するJWTのクレーム。
type Claims struct {
	jwt.RegisteredClaims
	// UID はユーザーの一意識別子。
	UID string `json:"uid"`
	// FirstName はユーザーの名。
	FirstName string `json:"first_name"`
	// LastName はユーザーの姓。
	LastName string `json:"last_name"`
}

// TokenIssuer はJWTの発行と検証を行う。
type TokenIssuer struct {
	secret           []byte
	ttl              time.Duration
	refreshThreshold time.Duration
	now              func() time.Time
}

// NewTokenIssuer は新しいTokenIssuerを生成する。
func NewTokenIssuer(secret string, ttl, refreshThreshold time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:           []byte(secret),
		ttl:              ttl,
		refreshThreshold: refreshThreshold,
		now:              time.Now,
	}
}

// Issue はユーザーのトークンを発行する。
func (i *TokenIssuer) Issue(uid, firstName, lastName string) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.New().String(),
		},
		UID:       uid,
		FirstName: firstName,
		LastName:  lastName,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// IssueFor はユーザーディレクトリのユーザーに対してトークンを発行する。
func (i *TokenIssuer) IssueFor(u *userstore.User) (string, error) {
	return i.Issue(u.UID, u.FirstName, u.LastName)
}

// Parse はトークンを検証してクレームを返す。
// 期限切れは ErrTokenExpired、それ以外の不正は ErrTokenInvalid を返す。
func (i *TokenIssuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	case claims.UID == "":
		return nil, fmt.Errorf("%w: uid claim is missing", ErrTokenInvalid)
	}
	return claims, nil
}

// NeedsRefresh は残り有効期間が閾値以下かを判定する。残り時間は分単位に切り捨てて比較する。
func (i *TokenIssuer) NeedsRefresh(claims *Claims) bool {
	remaining := claims.ExpiresAt.Sub(i.now())
	return remaining.Truncate(time.Minute) <= i.refreshThreshold
}
