package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_DeduplicatesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "season-report", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "report:season:14:2023-24", loader)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if got, _ := v.(string); got != "season-report" {
				t.Errorf("unexpected value: %v", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_DeletePrefix_InvalidatesTeamSeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	store.Set(ctx, "report:season:14:2023-24", "a")
	store.Set(ctx, "report:per-game:14:2023-24", "b")
	store.Set(ctx, "report:season:15:2023-24", "c")

	store.DeletePrefix(ctx, "report:season:14:")

	if _, ok := store.Get(ctx, "report:season:14:2023-24"); ok {
		t.Fatalf("expected team 14 season report to be invalidated")
	}
	if _, ok := store.Get(ctx, "report:season:15:2023-24"); !ok {
		t.Fatalf("expected team 15 season report to remain")
	}
}

func TestStore_Get_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(10 * time.Millisecond)
	store.Set(ctx, "k", "v")

	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}
