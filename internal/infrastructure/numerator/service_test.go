package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	corenumerator "bizdesk/internal/core/numerator"
)

func TestGetNextNumber_Sequential(t *testing.T) {
	svc := New()
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("INV")
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-2026-00001" {
		t.Errorf("expected INV-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-2026-00002" {
		t.Errorf("expected INV-2026-00002, got %s", num)
	}
}

func TestGetNextNumber_YearlyReset(t *testing.T) {
	svc := New()
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("SO")

	_, _ = svc.GetNextNumber(ctx, cfg, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	num, err := svc.GetNextNumber(ctx, cfg, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SO-2026-00001" {
		t.Errorf("expected SO-2026-00001, got %s", num)
	}
}

func TestGetNextNumber_CatalogCodes(t *testing.T) {
	svc := New()
	cfg := corenumerator.CatalogConfig("CL")

	num, err := svc.GetNextNumber(context.Background(), cfg, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "CL-0001" {
		t.Errorf("expected CL-0001, got %s", num)
	}
}

func TestGetNextNumber_Concurrent(t *testing.T) {
	svc := New()
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("EST")
	period := time.Now()

	const workers = 20
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.GetNextNumber(ctx, cfg, period)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for num := range results {
		if seen[num] {
			t.Fatalf("duplicate number %s", num)
		}
		seen[num] = true
	}
	if len(seen) != workers {
		t.Errorf("expected %d numbers, got %d", workers, len(seen))
	}
}

func TestSetNextNumber(t *testing.T) {
	svc := New()
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("PO")
	period := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	if err := svc.SetNextNumber(ctx, cfg, period, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	num, _ := svc.GetNextNumber(ctx, cfg, period)
	if num != "PO-2026-00100" {
		t.Errorf("expected PO-2026-00100, got %s", num)
	}

	if err := svc.SetNextNumber(ctx, cfg, period, 50); err == nil {
		t.Error("expected error when moving sequence backwards")
	}
	if err := svc.SetNextNumber(ctx, cfg, period, 0); err == nil {
		t.Error("expected error for non-positive value")
	}
}

func TestGetNextNumber_EmptyPrefix(t *testing.T) {
	if _, err := New().GetNextNumber(context.Background(), corenumerator.Config{}, time.Now()); err == nil {
		t.Error("expected error for empty prefix")
	}
}
