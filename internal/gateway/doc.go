// Package gateway はHTTP APIゲートウェイの内部実装を提供する。
//
// 外部からアクセス可能な唯一のサービスであり、リクエストの必須項目とBearerトークンを検証したうえで
// 認証・認可・送金の各バックエンドへgRPCで1回だけ転送し、その結果をHTTPステータスに変換する。
// ゲートウェイ自身は業務ルールを持たない。
package gateway
