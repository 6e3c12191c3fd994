// Package transaction は送金サービスを実装する。
//
// 送金要求ごとに認証サービスでトークンを検証し、認可サービスで Transfer 操作の可否を確認する。
// 成立した送金は transfers テーブルに記録し、同じトランザクションで台帳イベントを追記する。
package transaction
