package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

func mustJSON(t *testing.T, snap *core.Snapshot) []byte {
	t.Helper()
	b, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func sampleSnapshot() *core.Snapshot {
	snap := core.DefaultSnapshot()
	snap.InsightsRefreshedAt = time.Date(2025, time.April, 15, 9, 30, 0, 0, time.UTC)
	snap.Transactions = append([]core.Transaction{{
		ID: 6, Date: "Apr 16", Payee: "Bookshop", Category: "Shopping",
		Amount: decimal.RequireFromString("-19.99"), CustomCategory: "Books",
	}}, snap.Transactions...)
	return snap
}

func exerciseGateway(t *testing.T, gw Gateway) {
	t.Helper()
	ctx := context.Background()

	if _, err := gw.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	snap := sampleSnapshot()
	if err := gw.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := gw.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(mustJSON(t, got), mustJSON(t, snap)) {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", mustJSON(t, got), mustJSON(t, snap))
	}
	if !got.InsightsRefreshedAt.Equal(snap.InsightsRefreshedAt) {
		t.Fatalf("refreshed-at lost: %v", got.InsightsRefreshedAt)
	}

	// A second save replaces the document.
	snap.Profile.Balance = decimal.RequireFromString("921.48")
	if err := gw.Save(ctx, snap); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err = gw.Load(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !got.Profile.Balance.Equal(decimal.RequireFromString("921.48")) {
		t.Fatalf("balance = %s", got.Profile.Balance)
	}

	if err := gw.Save(ctx, nil); !errors.Is(err, core.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot for nil, got %v", err)
	}
}

func TestMemoryGateway(t *testing.T) {
	exerciseGateway(t, NewMemoryGateway())
}

func TestMemoryGatewayIsolatesCaller(t *testing.T) {
	ctx := context.Background()
	gw := NewMemoryGateway()
	snap := core.DefaultSnapshot()
	if err := gw.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap.Profile.Balance = decimal.Zero
	got, _ := gw.Load(ctx)
	if got.Profile.Balance.IsZero() {
		t.Fatalf("caller mutation leaked into store")
	}
}

func TestFileGateway(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "snapshot.json")
	gw, err := NewFileGateway(path)
	if err != nil {
		t.Fatalf("new file gateway: %v", err)
	}
	exerciseGateway(t, gw)

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestFileGatewayCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	gw, _ := NewFileGateway(path)
	_, err := gw.Load(context.Background())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestSQLiteGateway(t *testing.T) {
	gw, err := NewSQLiteGateway(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("new sqlite gateway: %v", err)
	}
	defer gw.Close()

	exerciseGateway(t, gw)

	v, err := gw.version(context.Background())
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != 2 {
		t.Fatalf("expected version 2 after two saves, got %d", v)
	}
}

func TestSQLiteGatewayReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.db")
	ctx := context.Background()

	gw, err := NewSQLiteGateway(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := gw.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	gw.Close()

	// Migrations must be idempotent across restarts.
	gw, err = NewSQLiteGateway(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer gw.Close()
	got, err := gw.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if got.Transactions[0].CustomCategory != "Books" {
		t.Fatalf("custom category lost: %+v", got.Transactions[0])
	}
}
