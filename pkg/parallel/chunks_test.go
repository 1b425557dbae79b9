package parallel

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolOverflow(t *testing.T) {
	if _, err := NewWorkerPool(math.MaxInt); !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("Expected ErrTooManyWorkers, got %v", err)
	}
}

func TestPlan_CoversRangeExactlyOnce(t *testing.T) {
	for _, tc := range []struct{ workers, n int }{
		{1, 10}, {4, 10}, {4, 3}, {8, 1000}, {3, 17}, {0, 50},
	} {
		chunks := Plan(tc.workers, tc.n)
		seen := make([]int, tc.n)
		for i, c := range chunks {
			if c.Index != i {
				t.Errorf("workers=%d n=%d: chunk %d has index %d", tc.workers, tc.n, i, c.Index)
			}
			if c.Len() <= 0 {
				t.Errorf("workers=%d n=%d: empty chunk %+v", tc.workers, tc.n, c)
			}
			for k := c.Lo; k < c.Hi; k++ {
				seen[k]++
			}
		}
		for k, cnt := range seen {
			if cnt != 1 {
				t.Errorf("workers=%d n=%d: item %d covered %d times", tc.workers, tc.n, k, cnt)
			}
		}
	}
}

func TestPlan_SingleWorkerSingleChunk(t *testing.T) {
	chunks := Plan(1, 100)
	if len(chunks) != 1 || chunks[0].Lo != 0 || chunks[0].Hi != 100 {
		t.Errorf("Expected one chunk [0,100), got %+v", chunks)
	}
}

func TestPlan_Empty(t *testing.T) {
	if chunks := Plan(4, 0); chunks != nil {
		t.Errorf("Expected nil plan, got %+v", chunks)
	}
}

func TestRunChunks_SumReduction(t *testing.T) {
	const n = 1000
	for _, workers := range []int{1, 2, 7} {
		chunks := Plan(workers, n)
		partials := make([]int64, len(chunks))

		err := RunChunks(context.Background(), workers, chunks, func(ctx context.Context, c Chunk) error {
			for i := c.Lo; i < c.Hi; i++ {
				partials[c.Index] += int64(i)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("workers=%d: RunChunks failed: %v", workers, err)
		}

		var total int64
		for _, p := range partials {
			total += p
		}
		if total != n*(n-1)/2 {
			t.Errorf("workers=%d: total = %d, want %d", workers, total, n*(n-1)/2)
		}
	}
}

func TestRunChunks_FirstErrorReturned(t *testing.T) {
	boom := errors.New("boom")
	chunks := Plan(4, 100)

	err := RunChunks(context.Background(), 4, chunks, func(ctx context.Context, c Chunk) error {
		if c.Index == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestRunChunks_PanicBecomesError(t *testing.T) {
	for _, workers := range []int{1, 4} {
		err := RunChunks(context.Background(), workers, Plan(workers, 10), func(ctx context.Context, c Chunk) error {
			panic("kaboom")
		})
		if !errors.Is(err, ErrTaskPanic) {
			t.Errorf("workers=%d: expected ErrTaskPanic, got %v", workers, err)
		}
	}
}

func TestRunChunks_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	err := RunChunks(ctx, 4, Plan(4, 100), func(ctx context.Context, c Chunk) error {
		atomic.AddInt64(&calls, 1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no chunk to run, got %d", calls)
	}
}

func TestRunChunks_CancelDuringRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := RunChunks(ctx, 1, Plan(1, 10), func(ctx context.Context, c Chunk) error {
		for i := c.Lo; i < c.Hi; i++ {
			if i == 3 {
				cancel()
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestResolveWorkers(t *testing.T) {
	if ResolveWorkers(3) != 3 {
		t.Error("Positive worker count must be kept")
	}
	if ResolveWorkers(0) < 1 {
		t.Error("Zero workers must resolve to at least one")
	}
}
