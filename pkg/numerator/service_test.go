package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "inventory/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences rows, one counter per key.
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
	calls  int
	err    error
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return &mockRow{err: m.err}
	}
	if m.values == nil {
		m.values = make(map[string]int64)
	}
	key, _ := args[0].(string)
	m.values[key]++
	return &mockRow{val: m.values[key]}
}

func fixed(q Querier) *Service {
	return NewWithQuerierFunc(func(context.Context) Querier { return q })
}

var period = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := fixed(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig(corenumerator.PrefixSale)

	num, err := svc.GetNextNumber(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SL-2026-00001" {
		t.Errorf("expected SL-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SL-2026-00002" {
		t.Errorf("expected SL-2026-00002, got %s", num)
	}

	// purchase orders count separately
	num, err = svc.GetNextNumber(ctx, corenumerator.DefaultConfig(corenumerator.PrefixPurchaseOrder), period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-2026-00001" {
		t.Errorf("expected PO-2026-00001, got %s", num)
	}
}

func TestGetNextNumber_QueryError(t *testing.T) {
	svc := fixed(&mockQuerier{err: errors.New("connection reset")})

	if _, err := svc.GetNextNumber(context.Background(), corenumerator.DefaultConfig("SL"), period); err == nil {
		t.Fatal("expected error")
	}

	var nilSvc *Service
	if _, err := nilSvc.GetNextNumber(context.Background(), corenumerator.DefaultConfig("SL"), period); err == nil {
		t.Fatal("expected error for nil service")
	}
}

func TestGetNextNumber_UsesQuerierFromContext(t *testing.T) {
	type key struct{}
	txQuerier := &mockQuerier{}
	poolQuerier := &mockQuerier{}

	svc := NewWithQuerierFunc(func(ctx context.Context) Querier {
		if ctx.Value(key{}) != nil {
			return txQuerier
		}
		return poolQuerier
	})

	ctx := context.WithValue(context.Background(), key{}, true)
	if _, err := svc.GetNextNumber(ctx, corenumerator.DefaultConfig("SL"), period); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txQuerier.calls != 1 || poolQuerier.calls != 0 {
		t.Errorf("expected tx querier to be used, got tx=%d pool=%d", txQuerier.calls, poolQuerier.calls)
	}
}

func TestBuildKeyAndFormat(t *testing.T) {
	tests := []struct {
		name    string
		cfg     corenumerator.Config
		wantKey string
		wantNum string
	}{
		{"yearly", corenumerator.DefaultConfig("SL"), "SL_2026", "SL-2026-00007"},
		{"monthly", corenumerator.Config{Prefix: "PO", ResetPeriod: "month", PadWidth: 3}, "PO_2026_03", "PO-007"},
		{"never", corenumerator.Config{Prefix: "X", IncludeYear: true}, "X", "X-2026-00007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildKey(tt.cfg, period); got != tt.wantKey {
				t.Errorf("key: expected %s, got %s", tt.wantKey, got)
			}
			if got := FormatNumber(tt.cfg, period, 7); got != tt.wantNum {
				t.Errorf("number: expected %s, got %s", tt.wantNum, got)
			}
		})
	}
}
