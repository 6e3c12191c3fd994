package authorization

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/nao1215/paygate/pkg/migration"
	"github.com/rs/zerolog"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationTable は認可ポリシーのマイグレーション系列を記録するテーブル。
const migrationTable = "authorization_migrations"

// PolicyStore はoperation_policiesテーブルに保存された認可ポリシー。
type PolicyStore struct {
	db *sql.DB
}

// NewPolicyStore はマイグレーションを適用してPolicyStoreを生成する。
func NewPolicyStore(ctx context.Context, db *sql.DB, logger zerolog.Logger) (*PolicyStore, error) {
	if err := migration.Run(ctx, db, migrationsFS, "migrations", logger, migration.WithTable(migrationTable)); err != nil {
		return nil, fmt.Errorf("認可ポリシーのスキーマ初期化に失敗: %w", err)
	}
	return &PolicyStore{db: db}, nil
}

// Allowed は居住国countryのユーザーに操作operationが許可されているかを返す。
func (p *PolicyStore) Allowed(ctx context.Context, operation, country string) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx,
		"SELECT 1 FROM operation_policies WHERE operation = ? AND country = ?",
		operation, country,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("認可ポリシーの取得に失敗: %w", err)
	}
	return true, nil
}

// Grant は操作operationを居住国countryのユーザーに許可する。既に許可済みなら何もしない。
func (p *PolicyStore) Grant(ctx context.Context, operation, country string) error {
	if _, err := p.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO operation_policies (operation, country) VALUES (?, ?)",
		operation, country,
	); err != nil {
		return fmt.Errorf("認可ポリシーの登録に失敗: %w", err)
	}
	return nil
}
