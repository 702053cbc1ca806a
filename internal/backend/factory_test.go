package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "redis",
		RedisAddr:    "localhost:6379",
		RedisKey:     "k",
		SQLiteDBPath: "ignored.db",
	})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != RedisBackend || cfg.RedisAddr != "localhost:6379" || cfg.RedisKey != "k" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"file", Config{Type: FileBackend, SnapshotFile: "s.json"}, false},
		{"file without path", Config{Type: FileBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"postgres without url", Config{Type: PostgresBackend}, true},
		{"redis without addr", Config{Type: RedisBackend}, true},
		{"unknown", Config{Type: "sheets"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	want := []string{"memory", "file", "sqlite", "postgres", "redis"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCreateBackendLocal(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		config Config
	}{
		{"memory", Config{Type: MemoryBackend}},
		{"file", Config{Type: FileBackend, SnapshotFile: filepath.Join(dir, "snapshot.json")}},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "fintrack.db")}},
	}

	f := NewFactory(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			res, err := f.CreateBackend(ctx, tt.config)
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			defer res.Close()

			if _, err := res.Gateway.Load(ctx); !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("fresh gateway Load error = %v, want ErrNotFound", err)
			}
			if err := res.Gateway.Save(ctx, core.DefaultSnapshot()); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := res.Gateway.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !got.Profile.Balance.Equal(core.DefaultSnapshot().Profile.Balance) {
				t.Fatalf("balance = %s", got.Profile.Balance)
			}
		})
	}
}

func TestCreateBackendRejectsInvalid(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: PostgresBackend}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestBackendResultCloseWithoutCleanup(t *testing.T) {
	var nilResult *BackendResult
	if err := nilResult.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
	if err := (&BackendResult{}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
