package event

import (
	"encoding/json"
	"time"
)

// AggregateType はイベントの対象となるエンティティの種類を表す。
type AggregateType string

const (
	// AggregateTypeTransfer は送金を表す。
	AggregateTypeTransfer AggregateType = "Transfer"
)

// Type はイベントの種類を表す。
type Type string

const (
	// TypeTransferCompleted は送金が完了したことを表す。
	TypeTransferCompleted Type = "TransferCompleted"
	// TypeTransferRejected は送金が認可または入力検証で拒否されたことを表す。
	TypeTransferRejected Type = "TransferRejected"
)

// aggregateOf はイベント種別ごとの対象エンティティ。
var aggregateOf = map[Type]AggregateType{
	TypeTransferCompleted: AggregateTypeTransfer,
	TypeTransferRejected:  AggregateTypeTransfer,
}

// Event は台帳に追記される不変のイベントレコード。
type Event struct {
	// ID はイベントの一意識別子（UUID）。
	ID string `json:"id"`
	// AggregateID は対象エンティティの識別子。送金の場合は参照ID。
	AggregateID string `json:"aggregate_id"`
	// AggregateType は対象エンティティの種類。
	AggregateType AggregateType `json:"aggregate_type"`
	// EventType はイベントの種類。
	EventType Type `json:"event_type"`
	// Data はイベント固有のデータ（JSON形式）。
	Data json.RawMessage `json:"data"`
	// Version はAggregate内でのイベントの順序番号。
	Version int64 `json:"version"`
	// CreatedAt はイベントが作成された日時。
	CreatedAt time.Time `json:"created_at"`
}

// TransferCompletedData はTransferCompletedイベントのデータ。
type TransferCompletedData struct {
	// SenderUID は送金者のUID。
	SenderUID string `json:"sender_uid"`
	// SenderAccountNumber は送金元の口座番号。
	SenderAccountNumber string `json:"sender_account_number"`
	// ReceiverAccountNumber は送金先の口座番号。
	ReceiverAccountNumber string `json:"receiver_account_number"`
	// Amount は送金額。
	Amount float64 `json:"amount"`
	// Narration は摘要。
	Narration string `json:"narration"`
}

// TransferRejectedData はTransferRejectedイベントのデータ。
type TransferRejectedData struct {
	// SenderUID は送金を試みたユーザーのUID。
	SenderUID string `json:"sender_uid"`
	// ReceiverAccountNumber は指定された送金先の口座番号。
	ReceiverAccountNumber string `json:"receiver_account_number"`
	// Amount は指定された送金額。
	Amount float64 `json:"amount"`
	// Reason は拒否の理由。
	Reason string `json:"reason"`
}
