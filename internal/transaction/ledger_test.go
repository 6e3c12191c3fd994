package transaction

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/nao1215/paygate/pkg/event"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// setupTestLedger はインメモリSQLiteで台帳を構築する。
func setupTestLedger(t *testing.T) *Ledger {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("データベース接続に失敗: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ledger, err := NewLedger(context.Background(), db, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLedger()でエラーが発生: %v", err)
	}
	return ledger
}

func TestLedger(t *testing.T) {
	t.Parallel()

	t.Run("送金とイベントが保存されること", func(t *testing.T) {
		t.Parallel()

		ledger := setupTestLedger(t)
		ctx := context.Background()

		tr := Transfer{
			RefID:                 "ref-1",
			SenderUID:             "5m4R7C0d3r",
			SenderAccountNumber:   "0012345",
			ReceiverAccountNumber: "9876543210",
			Amount:                42.5,
			Narration:             "Transfer",
		}
		ev, err := event.New(tr.RefID, event.TypeTransferCompleted, 1, event.TransferCompletedData{Amount: tr.Amount})
		if err != nil {
			t.Fatalf("event.New()でエラーが発生: %v", err)
		}
		if err := ledger.RecordTransfer(ctx, tr, ev); err != nil {
			t.Fatalf("RecordTransfer()でエラーが発生: %v", err)
		}

		got, err := ledger.FindTransfer(ctx, "ref-1")
		if err != nil {
			t.Fatalf("FindTransfer()でエラーが発生: %v", err)
		}
		if got.Amount != 42.5 || got.ReceiverAccountNumber != "9876543210" {
			t.Errorf("送金 = %+v", got)
		}
		if got.CreatedAt.IsZero() {
			t.Error("CreatedAtが設定されていない")
		}

		events, err := ledger.Events(ctx, "ref-1")
		if err != nil {
			t.Fatalf("Events()でエラーが発生: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("イベント数 = %d, want 1", len(events))
		}
		if events[0].EventType != event.TypeTransferCompleted {
			t.Errorf("EventType = %q, want %q", events[0].EventType, event.TypeTransferCompleted)
		}
	})

	t.Run("イベントの保存に失敗した場合は送金も残らないこと", func(t *testing.T) {
		t.Parallel()

		ledger := setupTestLedger(t)
		ctx := context.Background()

		first, err := event.New("ref-2", event.TypeTransferRejected, 1, event.TransferRejectedData{Reason: "x"})
		if err != nil {
			t.Fatalf("event.New()でエラーが発生: %v", err)
		}
		if err := ledger.RecordEvent(ctx, first); err != nil {
			t.Fatalf("RecordEvent()でエラーが発生: %v", err)
		}

		// 同じバージョンのイベントは一意制約に違反する
		dup, err := event.New("ref-2", event.TypeTransferCompleted, 1, event.TransferCompletedData{})
		if err != nil {
			t.Fatalf("event.New()でエラーが発生: %v", err)
		}
		tr := Transfer{RefID: "ref-2", SenderUID: "u", SenderAccountNumber: "1", ReceiverAccountNumber: "2", Amount: 1, Narration: "Transfer"}
		if err := ledger.RecordTransfer(ctx, tr, dup); err == nil {
			t.Fatal("一意制約違反でエラーが返されていない")
		}

		_, err = ledger.FindTransfer(ctx, "ref-2")
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("FindTransfer()のエラー = %v, want sql.ErrNoRows", err)
		}
	})
}
