package userstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/paygate/pkg/migration"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationTable はユーザーディレクトリのマイグレーション系列を記録するテーブル。
const migrationTable = "userstore_migrations"

var (
	// ErrUserNotFound は条件に一致するユーザーが存在しないことを表す。
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists はUID、口座番号、メールアドレスまたは電話番号が既に使われていることを表す。
	ErrUserExists = errors.New("user already exists")
)

// User はユーザーディレクトリの1件。
type User struct {
	UID            string
	AccountNumber  string
	HashedPassword string
	EmailOrPhone   string
	FirstName      string
	LastName       string
	Country        string
	CreatedAt      time.Time
}

// FullName は「名 姓」形式の氏名を返す。
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Store はSQLiteに保存されたユーザーディレクトリ。並行利用に安全。
type Store struct {
	db *sql.DB
}

// Open はSQLiteデータベースを開き、ユーザーディレクトリのマイグレーションを適用する。
// pathが ":memory:" の場合は接続を1本に制限し、全クエリが同じインメモリDBを参照するようにする。
func Open(ctx context.Context, path string, logger zerolog.Logger) (*sql.DB, *Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store, err := New(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, store, nil
}

// New は既存のデータベース接続にマイグレーションを適用してStoreを生成する。
func New(ctx context.Context, db *sql.DB, logger zerolog.Logger) (*Store, error) {
	if err := migration.Run(ctx, db, migrationsFS, "migrations", logger, migration.WithTable(migrationTable)); err != nil {
		return nil, fmt.Errorf("ユーザーディレクトリのスキーマ初期化に失敗: %w", err)
	}
	return &Store{db: db}, nil
}

const selectUser = `
SELECT uid, account_number, hashed_password, email_or_phone, first_name, last_name, country, created_at
FROM users
`

// FindByEmailOrPhone はメールアドレスまたは電話番号でユーザーを検索する。
func (s *Store) FindByEmailOrPhone(ctx context.Context, emailOrPhone string) (*User, error) {
	return s.findOne(ctx, selectUser+"WHERE email_or_phone = ?", emailOrPhone)
}

// FindByUID はUIDでユーザーを検索する。
func (s *Store) FindByUID(ctx context.Context, uid string) (*User, error) {
	return s.findOne(ctx, selectUser+"WHERE uid = ?", uid)
}

// FindByAccountNumber は口座番号でユーザーを検索する。
func (s *Store) FindByAccountNumber(ctx context.Context, accountNumber string) (*User, error) {
	return s.findOne(ctx, selectUser+"WHERE account_number = ?", accountNumber)
}

func (s *Store) findOne(ctx context.Context, query string, arg string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.UID,
		&u.AccountNumber,
		&u.HashedPassword,
		&u.EmailOrPhone,
		&u.FirstName,
		&u.LastName,
		&u.Country,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}
	return &u, nil
}

// Create はユーザーを登録する。HashedPasswordはハッシュ化済みの値を渡す。
func (s *Store) Create(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (uid, account_number, hashed_password, email_or_phone, first_name, last_name, country)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.UID, u.AccountNumber, u.HashedPassword, u.EmailOrPhone, u.FirstName, u.LastName, u.Country)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("uid=%s: %w", u.UID, ErrUserExists)
		}
		return fmt.Errorf("ユーザーの登録に失敗: %w", err)
	}
	return nil
}

// isConstraintViolation は一意制約または主キー制約の違反かを判定する。
func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
