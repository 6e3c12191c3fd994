// Package env は環境変数からサービス設定を読み込むヘルパーを提供する。
//
// 起動時に .env ファイルがあれば読み込み、未設定の値にはデフォルト値を使う。
package env
