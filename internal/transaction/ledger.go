package transaction

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/nao1215/paygate/pkg/event"
	"github.com/nao1215/paygate/pkg/migration"
	"github.com/rs/zerolog"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationTable は台帳のマイグレーション系列を記録するテーブル。
const migrationTable = "transaction_migrations"

// Transfer は成立した送金。
type Transfer struct {
	RefID                 string
	SenderUID             string
	SenderAccountNumber   string
	ReceiverAccountNumber string
	Amount                float64
	Narration             string
	CreatedAt             time.Time
}

// Ledger は送金と台帳イベントを保存する。
type Ledger struct {
	db *sql.DB
}

// NewLedger はマイグレーションを適用してLedgerを生成する。
func NewLedger(ctx context.Context, db *sql.DB, logger zerolog.Logger) (*Ledger, error) {
	if err := migration.Run(ctx, db, migrationsFS, "migrations", logger, migration.WithTable(migrationTable)); err != nil {
		return nil, fmt.Errorf("台帳のスキーマ初期化に失敗: %w", err)
	}
	return &Ledger{db: db}, nil
}

// RecordTransfer は送金と完了イベントを1つのトランザクションで保存する。
func (l *Ledger) RecordTransfer(ctx context.Context, tr Transfer, ev *event.Event) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transfers (ref_id, sender_uid, sender_account_number, receiver_account_number, amount, narration)
		VALUES (?, ?, ?, ?, ?, ?)
	`, tr.RefID, tr.SenderUID, tr.SenderAccountNumber, tr.ReceiverAccountNumber, tr.Amount, tr.Narration); err != nil {
		return fmt.Errorf("送金の保存に失敗: %w", err)
	}

	if err := appendEvent(ctx, tx, ev); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

// RecordEvent は送金を伴わないイベントを保存する。
func (l *Ledger) RecordEvent(ctx context.Context, ev *event.Event) error {
	return appendEvent(ctx, l.db, ev)
}

// execer は *sql.DB と *sql.Tx の共通部分。
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func appendEvent(ctx context.Context, db execer, ev *event.Event) error {
	if _, err := db.ExecContext(ctx, `
		INSERT INTO ledger_events (id, aggregate_id, aggregate_type, event_type, data, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.AggregateID, string(ev.AggregateType), string(ev.EventType), string(ev.Data), ev.Version, ev.CreatedAt); err != nil {
		return fmt.Errorf("イベントの保存に失敗: %w", err)
	}
	return nil
}

// FindTransfer は参照IDで送金を取得する。見つからなければ sql.ErrNoRows を返す。
func (l *Ledger) FindTransfer(ctx context.Context, refID string) (*Transfer, error) {
	var tr Transfer
	err := l.db.QueryRowContext(ctx, `
		SELECT ref_id, sender_uid, sender_account_number, receiver_account_number, amount, narration, created_at
		FROM transfers WHERE ref_id = ?
	`, refID).Scan(
		&tr.RefID,
		&tr.SenderUID,
		&tr.SenderAccountNumber,
		&tr.ReceiverAccountNumber,
		&tr.Amount,
		&tr.Narration,
		&tr.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("送金の取得に失敗: %w", err)
	}
	return &tr, nil
}

// Events は対象エンティティのイベントをバージョン順に返す。
func (l *Ledger) Events(ctx context.Context, aggregateID string) ([]event.Event, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at
		FROM ledger_events WHERE aggregate_id = ? ORDER BY version
	`, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []event.Event
	for rows.Next() {
		var (
			ev   event.Event
			data string
		)
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.AggregateType, &ev.EventType, &data, &ev.Version, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("イベントの読み込みに失敗: %w", err)
		}
		ev.Data = []byte(data)
		events = append(events, ev)
	}
	return events, rows.Err()
}
