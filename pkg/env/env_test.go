package env

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// TestString は String 関数を検証する。
func TestString(t *testing.T) {
	t.Run("設定済みの値が返ること", func(t *testing.T) {
		t.Setenv("PAYGATE_TEST_STRING", "value")
		if got := String("PAYGATE_TEST_STRING", "default"); got != "value" {
			t.Errorf("String() = %q, want %q", got, "value")
		}
	})

	t.Run("未設定の場合はデフォルト値が返ること", func(t *testing.T) {
		t.Setenv("PAYGATE_TEST_STRING", "")
		if got := String("PAYGATE_TEST_STRING", "default"); got != "default" {
			t.Errorf("String() = %q, want %q", got, "default")
		}
	})
}

// TestInt は Int 関数を検証する。
func TestInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "数値が解析されること", value: "42", want: 42},
		{name: "未設定の場合はデフォルト値", value: "", want: 7},
		{name: "数値以外はデフォルト値", value: "abc", want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PAYGATE_TEST_INT", tt.value)
			if got := Int("PAYGATE_TEST_INT", 7); got != tt.want {
				t.Errorf("Int() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestDuration は Duration 関数を検証する。
func TestDuration(t *testing.T) {
	t.Run("期間文字列が解析されること", func(t *testing.T) {
		t.Setenv("PAYGATE_TEST_DURATION", "15m")
		if got := Duration("PAYGATE_TEST_DURATION", time.Second); got != 15*time.Minute {
			t.Errorf("Duration() = %v, want %v", got, 15*time.Minute)
		}
	})

	t.Run("不正な値の場合はデフォルト値が返ること", func(t *testing.T) {
		t.Setenv("PAYGATE_TEST_DURATION", "fifteen")
		if got := Duration("PAYGATE_TEST_DURATION", time.Second); got != time.Second {
			t.Errorf("Duration() = %v, want %v", got, time.Second)
		}
	})
}

// TestBool は Bool 関数を検証する。
func TestBool(t *testing.T) {
	t.Setenv("PAYGATE_TEST_BOOL", "true")
	if !Bool("PAYGATE_TEST_BOOL", false) {
		t.Error("Bool() = false, want true")
	}
	t.Setenv("PAYGATE_TEST_BOOL", "yes")
	if Bool("PAYGATE_TEST_BOOL", false) {
		t.Error("解析できない値でデフォルト値が返っていない")
	}
}

// TestStrings は Strings 関数を検証する。
func TestStrings(t *testing.T) {
	t.Run("カンマ区切りの値が分割されること", func(t *testing.T) {
		t.Setenv("PAYGATE_TEST_STRINGS", " 10.0.0.1, 192.168.0.0/16 ,,")
		got := Strings("PAYGATE_TEST_STRINGS", nil)
		want := []string{"10.0.0.1", "192.168.0.0/16"}
		if !slices.Equal(got, want) {
			t.Errorf("Strings() = %v, want %v", got, want)
		}
	})

	t.Run("未設定の場合はデフォルト値が返ること", func(t *testing.T) {
		t.Setenv("PAYGATE_TEST_STRINGS", "")
		if got := Strings("PAYGATE_TEST_STRINGS", nil); got != nil {
			t.Errorf("Strings() = %v, want nil", got)
		}
	})
}

// TestLoad は Load 関数を検証する。
func TestLoad(t *testing.T) {
	t.Run(".envファイルがなくてもエラーにならないこと", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if err := Load(); err != nil {
			t.Fatalf("Load()でエラーが発生: %v", err)
		}
	})

	t.Run(".envファイルの値が読み込まれること", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PAYGATE_TEST_DOTENV=loaded\n"), 0o600); err != nil {
			t.Fatalf(".envファイルの作成に失敗: %v", err)
		}
		t.Chdir(dir)
		t.Setenv("PAYGATE_TEST_DOTENV", "")
		os.Unsetenv("PAYGATE_TEST_DOTENV")

		if err := Load(); err != nil {
			t.Fatalf("Load()でエラーが発生: %v", err)
		}
		if got := os.Getenv("PAYGATE_TEST_DOTENV"); got != "loaded" {
			t.Errorf("PAYGATE_TEST_DOTENV = %q, want %q", got, "loaded")
		}
	})
}
