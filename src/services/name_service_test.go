package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	_ "modernc.org/sqlite"
)

func newNameTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	schema, err := os.ReadFile(filepath.Join("..", "..", "db", "migrations", "000001_create_record_tables.up.sql"))
	if err != nil {
		t.Fatalf("reading migration file: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("applying schema: %v", err)
	}
	return db
}

func TestStockDisplayNameStaticTables(t *testing.T) {
	svc := NewNameService(cache.New(time.Minute, time.Minute), newNameTestDB(t), "http://unused.invalid", 100, 10)

	if got := svc.StockDisplayName(context.Background(), "TW", "2330"); got != "2330 台積電" {
		t.Errorf("TW static lookup = %q, want %q", got, "2330 台積電")
	}
	if got := svc.StockDisplayName(context.Background(), "US", "aapl"); got != "AAPL Apple Inc." {
		t.Errorf("US static lookup = %q, want %q", got, "AAPL Apple Inc.")
	}
}

func TestStockDisplayNameFetchesAndCaches(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.URL.Query().Get("q"); got != "9945.TW" {
			t.Errorf("query symbol = %q, want 9945.TW", got)
		}
		fmt.Fprint(w, `{"quotes":[{"symbol":"9945.TW","shortname":"潤泰新"}]}`)
	}))
	defer server.Close()

	db := newNameTestDB(t)
	svc := NewNameService(cache.New(time.Minute, time.Minute), db, server.URL, 100, 10)

	if got := svc.StockDisplayName(context.Background(), "TW", "9945"); got != "9945 潤泰新" {
		t.Fatalf("API lookup = %q, want %q", got, "9945 潤泰新")
	}

	// Second lookup is served from cache without another request.
	if got := svc.StockDisplayName(context.Background(), "TW", "9945"); got != "9945 潤泰新" {
		t.Fatalf("cached lookup = %q, want %q", got, "9945 潤泰新")
	}
	if requests != 1 {
		t.Errorf("expected 1 API request, got %d", requests)
	}

	// The resolved name is persisted for future sessions.
	var name string
	if err := db.QueryRow("SELECT name FROM instrument_names WHERE market = 'TW' AND code = '9945'").Scan(&name); err != nil {
		t.Fatalf("reading persisted name: %v", err)
	}
	if name != "潤泰新" {
		t.Errorf("persisted name = %q, want 潤泰新", name)
	}
}

func TestStockDisplayNamePrefersPersistedName(t *testing.T) {
	db := newNameTestDB(t)
	now := time.Now().Format(time.RFC3339)
	if _, err := db.Exec(
		"INSERT INTO instrument_names (market, code, name, created_at, last_checked_at) VALUES ('US', 'ZZZZ', 'Sleeping Giant Corp.', ?, ?)",
		now, now); err != nil {
		t.Fatalf("seeding name: %v", err)
	}

	// No server behind the base URL: a network fetch would fail loudly.
	svc := NewNameService(cache.New(time.Minute, time.Minute), db, "http://unused.invalid", 100, 10)
	if got := svc.StockDisplayName(context.Background(), "US", "ZZZZ"); got != "ZZZZ Sleeping Giant Corp." {
		t.Errorf("DB lookup = %q, want %q", got, "ZZZZ Sleeping Giant Corp.")
	}
}

func TestStockDisplayNameFallsBackToBareCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewNameService(cache.New(time.Minute, time.Minute), newNameTestDB(t), server.URL, 100, 10)
	if got := svc.StockDisplayName(context.Background(), "US", "ZZZZ"); got != "ZZZZ" {
		t.Errorf("failed lookup = %q, want bare code ZZZZ", got)
	}
}

func TestStockDisplayNameCachesMisses(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"quotes":[]}`)
	}))
	defer server.Close()

	svc := NewNameService(cache.New(time.Minute, time.Minute), newNameTestDB(t), server.URL, 100, 10)
	for i := 0; i < 3; i++ {
		if got := svc.StockDisplayName(context.Background(), "US", "ZZZZ"); got != "ZZZZ" {
			t.Fatalf("miss lookup = %q, want ZZZZ", got)
		}
	}
	if requests != 1 {
		t.Errorf("expected 1 API request for repeated misses, got %d", requests)
	}
}
