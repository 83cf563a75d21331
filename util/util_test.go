package util

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/mensylisir/ipsprint/common"
)

func TestHome(t *testing.T) {
	homeDirOnce = sync.Once{}
	homeDir = ""
	homeDirErr = nil

	home, err := Home()
	if err != nil {
		if os.Getenv("HOME") == "" {
			t.Logf("Home() failed without HOME set: %v. This might be expected in some CI.", err)
			return
		}
		t.Fatalf("Home() error = %v", err)
	}
	if home == "" {
		t.Errorf("Home() returned an empty string")
	}

	homeAgain, errAgain := Home()
	if errAgain != err {
		t.Errorf("Home() on second call error = %v, want error %v", errAgain, err)
	}
	if homeAgain != home {
		t.Errorf("Home() on second call got %q, want %q (caching test)", homeAgain, home)
	}
}

func TestEnsureDirAndFileExists(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "a", "b")
	if err := EnsureDir(dir, common.FileMode0755); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if err := EnsureDir(dir, common.FileMode0755); err != nil {
		t.Fatalf("EnsureDir() on existing dir error = %v", err)
	}
	if FileExists(dir) {
		t.Errorf("FileExists(%q) = true for a directory", dir)
	}

	file := filepath.Join(dir, "f.txt")
	if FileExists(file) {
		t.Errorf("FileExists(%q) = true before creation", file)
	}
	if err := os.WriteFile(file, []byte("x"), common.FileMode0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(file) {
		t.Errorf("FileExists(%q) = false after creation", file)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.json")

	if err := WriteFileAtomic(path, []byte(`{"a":1}`), common.FileMode0600); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := WriteFileAtomic(path, []byte(`{"a":2}`), common.FileMode0600); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"a":2}` {
		t.Errorf("content = %q, want %q", got, `{"a":2}`)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries in %s", len(entries), dir)
	}

	if err := WriteFileAtomic(filepath.Join(dir, "missing", "x.json"), nil, common.FileMode0600); err == nil {
		t.Errorf("WriteFileAtomic() into a missing directory should fail")
	}
}

func TestGetEnv(t *testing.T) {
	const key = "IPSPRINT_UTIL_TEST"
	t.Setenv(key, "")
	if got := GetEnv(key, "fallback"); got != "fallback" {
		t.Errorf("GetEnv() empty = %q, want fallback", got)
	}
	t.Setenv(key, "value")
	if got := GetEnv(key, "fallback"); got != "value" {
		t.Errorf("GetEnv() = %q, want value", got)
	}

}

func TestLookupEnvInt(t *testing.T) {
	const key = "IPSPRINT_UTIL_TEST"
	t.Setenv(key, "")
	if _, ok, err := LookupEnvInt(key); ok || err != nil {
		t.Errorf("LookupEnvInt() empty = %v, %v, want unset", ok, err)
	}
	t.Setenv(key, "12")
	if n, ok, err := LookupEnvInt(key); n != 12 || !ok || err != nil {
		t.Errorf("LookupEnvInt() = %d, %v, %v, want 12", n, ok, err)
	}
	t.Setenv(key, "twelve")
	if _, ok, err := LookupEnvInt(key); !ok || err == nil {
		t.Errorf("LookupEnvInt() bad value = %v, %v, want an error", ok, err)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name      string
		s         string
		maxLength int
		ellipsis  string
		want      string
	}{
		{"No truncation", "hello", 10, "...", "hello"},
		{"Exact length", "hello", 5, "...", "hello"},
		{"Simple truncation", "hello world", 8, "...", "hello..."},
		{"Short maxLength for ellipsis", "hello world", 3, "...", "..."},
		{"maxLength smaller than ellipsis", "hello world", 2, "...", ".."},
		{"maxLength zero", "hello world", 0, "...", ""},
		{"Empty ellipsis", "hello world", 5, "", "hello"},
		{"maxLength negative", "hello world", -1, "...", ""},
		{"Multibyte", "Pública Privada", 8, "…", "Pública…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.s, tt.maxLength, tt.ellipsis); got != tt.want {
				t.Errorf("TruncateString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueStrings(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{"Entry", "Associate", "Entry"}, []string{"Entry", "Associate"}},
		{[]string{"b", "a", "b", "a"}, []string{"b", "a"}},
	}
	for _, tt := range tests {
		if got := UniqueStrings(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("UniqueStrings(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		val       float64
		precision int
		want      float64
	}{
		{66.6666, 1, 66.7},
		{12.345, 0, 12},
		{12.5, 0, 13},
		{100, 2, 100},
	}
	for _, tt := range tests {
		if got := Round(tt.val, tt.precision); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.val, tt.precision, got, tt.want)
		}
	}
}
