// Package authentication は認証サービスを実装する。
//
// メールアドレスまたは電話番号とパスワードでユーザーを認証し、HS512で署名したJWTを発行する。
// 発行済みトークンの検証も担当し、有効期限が近いトークンは新しいトークンに差し替える。
// 認可サービスと送金サービスはトークン検証のために本サービスを呼び出す。
package authentication
