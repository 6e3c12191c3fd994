package migration

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// openTestDB はテスト用のインメモリSQLiteを開く。
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// TestRun はマイグレーションの適用を検証する。
func TestRun(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"migrations/000002_seed.up.sql":   {Data: []byte(`INSERT INTO items (name) VALUES ('a');`)},
		"migrations/000001_init.up.sql":   {Data: []byte(`CREATE TABLE items (name TEXT NOT NULL);`)},
		"migrations/000001_init.down.sql": {Data: []byte(`DROP TABLE items;`)},
		"migrations/README.md":            {Data: []byte(`ignored`)},
		"migrations/notaversion_x.up.sql": {Data: []byte(`SELECT broken`)},
	}

	t.Run("バージョン順に適用されること", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		if err := Run(context.Background(), db, fsys, "migrations", zerolog.Nop()); err != nil {
			t.Fatalf("Run()でエラーが発生: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
			t.Fatalf("件数の取得に失敗: %v", err)
		}
		if count != 1 {
			t.Errorf("items件数 = %d, want 1", count)
		}
	})

	t.Run("2回実行しても適用済みのものはスキップされること", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		for range 2 {
			if err := Run(context.Background(), db, fsys, "migrations", zerolog.Nop()); err != nil {
				t.Fatalf("Run()でエラーが発生: %v", err)
			}
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("件数の取得に失敗: %v", err)
		}
		if count != 2 {
			t.Errorf("schema_migrations件数 = %d, want 2", count)
		}
	})

	t.Run("マイグレーションが無い場合はErrNoMigrationsが返ること", func(t *testing.T) {
		t.Parallel()

		empty := fstest.MapFS{"migrations/README.md": {Data: []byte(`x`)}}
		err := Run(context.Background(), openTestDB(t), empty, "migrations", zerolog.Nop())
		if !errors.Is(err, ErrNoMigrations) {
			t.Errorf("Run() error = %v, want ErrNoMigrations", err)
		}
	})

	t.Run("系列ごとに別のテーブルで管理できること", func(t *testing.T) {
		t.Parallel()

		other := fstest.MapFS{
			"migrations/000001_other.up.sql": {Data: []byte(`CREATE TABLE others (id INTEGER);`)},
		}
		db := openTestDB(t)
		if err := Run(context.Background(), db, fsys, "migrations", zerolog.Nop()); err != nil {
			t.Fatalf("Run()でエラーが発生: %v", err)
		}
		if err := Run(context.Background(), db, other, "migrations", zerolog.Nop(), WithTable("other_migrations")); err != nil {
			t.Fatalf("Run()でエラーが発生: %v", err)
		}

		if _, err := db.Exec("INSERT INTO others (id) VALUES (1)"); err != nil {
			t.Errorf("別系列のマイグレーションが適用されていない: %v", err)
		}
	})

	t.Run("SQLが失敗した場合はロールバックされること", func(t *testing.T) {
		t.Parallel()

		broken := fstest.MapFS{
			"migrations/000001_init.up.sql": {Data: []byte(`CREATE TABLE items (name TEXT);`)},
			"migrations/000002_bad.up.sql":  {Data: []byte(`INSERT INTO missing VALUES (1);`)},
		}
		db := openTestDB(t)
		if err := Run(context.Background(), db, broken, "migrations", zerolog.Nop()); err == nil {
			t.Fatal("Run()がエラーを返さない")
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 2").Scan(&count); err != nil {
			t.Fatalf("件数の取得に失敗: %v", err)
		}
		if count != 0 {
			t.Errorf("失敗したバージョンが記録されている: %d", count)
		}
	})
}
