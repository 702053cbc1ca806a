package google

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"

	"github.com/shopspring/decimal"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), "  ", "Transactions", nil)
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceAccountCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := serviceAccountCredentials(context.Background(), log.Discard()); err == nil ||
		!strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}

	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", `{"type":"service_account"}`)
	b, err := serviceAccountCredentials(context.Background(), log.Discard())
	if err != nil || string(b) != `{"type":"service_account"}` {
		t.Fatalf("inline credentials: %s %v", b, err)
	}

	path := t.TempDir() + "/sa.json"
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)
	b, err = serviceAccountCredentials(context.Background(), log.Discard())
	if err != nil || string(b) != `{"from":"file"}` {
		t.Fatalf("file credentials: %s %v", b, err)
	}
}

func TestClientRequiresService(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheet: "2025 Transactions", logger: log.Discard()}
	tx := core.Transaction{ID: 1, Date: "Apr 15", Payee: "Grocery Store", Category: "Food", Amount: decimal.RequireFromString("-78.52")}

	if _, err := c.AppendTransaction(context.Background(), tx); err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("expected not initialized error, got %v", err)
	}
	tx.Payee = ""
	if _, err := c.AppendTransaction(context.Background(), tx); err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := c.HasTransaction(context.Background(), 1); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Transactions", 2025, "2025 Transactions"},
		{"2024 Transactions", 2025, "2024 Transactions"},
		{"  Ledger ", 2026, "2026 Ledger"},
		{"", 2025, ""},
		{"1800 Old", 2025, "2025 1800 Old"},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestHasTransactionUsesSeenIDs(t *testing.T) {
	c := &Client{
		spreadsheetID: "test",
		sheet:         "2025 Transactions",
		logger:        log.Discard(),
		seen:          cache.NewLRU[int64, struct{}](8, time.Hour),
	}
	c.remember(42)

	ok, err := c.HasTransaction(context.Background(), 42)
	if err != nil || !ok {
		t.Fatalf("HasTransaction(42) = %v, %v; want true, nil", ok, err)
	}
	if _, err := c.HasTransaction(context.Background(), 7); err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("expected not initialized error for unseen id, got %v", err)
	}
}
