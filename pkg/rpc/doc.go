// Package rpc はゲートウェイとバックエンドサービス間のgRPC通信を提供する。
//
// バックエンド（認証・認可・取引）は com.services.schema パッケージの
// gRPCサービスとして公開されている。本パッケージはそのメッセージ定義、
// protobufワイヤ形式のコーデック、固定アドレスに束縛された長寿命の
// クライアント、サーバー登録用のサービス記述子を持つ。
//
// 呼び出しの失敗は必ず *Failure として返される。Failure は種別
// （Unauthenticated / InvalidArgument / Internal）と詳細メッセージを持ち、
// 呼び出し側は種別で網羅的に分岐できる。
package rpc
