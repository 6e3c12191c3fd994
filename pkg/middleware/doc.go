// Package middleware はGatewayのフロントドアを構成するGinミドルウェアを提供する。
//
// セキュリティヘッダー、リクエストログ、レートリミット、ボディ解析、
// パニックリカバリとフォールバック応答、Bearerトークンの抽出を含む。
package middleware
