package http

import (
	"fmt"
	"testing"
	"time"

	"github.com/goya962/FinanceFlow/internal/core"
)

func TestSummaryCacheGetSet(t *testing.T) {
	c := newSummaryCache(10, time.Minute)

	if _, ok := c.Get("2024-01"); ok {
		t.Fatal("empty cache should miss")
	}

	want := core.MonthlySummary{Year: 2024, Month: 1, Balance: core.Money{Cents: 500}}
	c.Set("2024-01", want)

	got, ok := c.Get("2024-01")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSummaryCacheTTLExpiry(t *testing.T) {
	c := newSummaryCache(10, 10*time.Millisecond)
	c.Set("2024-01", core.MonthlySummary{Year: 2024, Month: 1})

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("2024-01"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestSummaryCacheLRUEviction(t *testing.T) {
	c := newSummaryCache(3, time.Minute)

	for m := 1; m <= 3; m++ {
		c.Set(fmt.Sprintf("2024-%02d", m), core.MonthlySummary{Year: 2024, Month: m})
	}

	// Touch the oldest so it survives the next eviction.
	if _, ok := c.Get("2024-01"); !ok {
		t.Fatal("expected hit for 2024-01")
	}

	c.Set("2024-04", core.MonthlySummary{Year: 2024, Month: 4})

	if _, ok := c.Get("2024-02"); ok {
		t.Fatal("least recently used entry should be evicted")
	}
	if _, ok := c.Get("2024-01"); !ok {
		t.Fatal("recently used entry should survive")
	}
	if _, ok := c.Get("2024-04"); !ok {
		t.Fatal("newest entry should be present")
	}
}

func TestSummaryCachePurge(t *testing.T) {
	c := newSummaryCache(10, time.Minute)
	c.Set("2024-01", core.MonthlySummary{Year: 2024, Month: 1})
	c.Set("2024-02", core.MonthlySummary{Year: 2024, Month: 2})

	c.Purge()

	if _, ok := c.Get("2024-01"); ok {
		t.Fatal("purged cache should miss")
	}
	if _, ok := c.Get("2024-02"); ok {
		t.Fatal("purged cache should miss")
	}
}
