// Package parallel splits index ranges into chunks and runs them on a
// bounded worker pool.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrTaskPanic wraps a panic raised inside a chunk function.
var ErrTaskPanic = errors.New("parallel: task panicked")

// chunksPerWorker oversplits the range so that uneven per-item cost (hub
// nodes, large components) still balances across workers.
const chunksPerWorker = 4

// Chunk is a half-open index range [Lo, Hi). Index is the chunk's position in
// the plan, so callers can keep one partial result per chunk without locking.
type Chunk struct {
	Index int
	Lo    int
	Hi    int
}

// Len returns the number of items in the chunk
func (c Chunk) Len() int {
	return c.Hi - c.Lo
}

// ResolveWorkers maps a non-positive worker count to runtime.NumCPU().
func ResolveWorkers(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

// Plan splits [0, n) into contiguous chunks for the given number of workers.
func Plan(workers, n int) []Chunk {
	if n <= 0 {
		return nil
	}
	workers = ResolveWorkers(workers)

	target := workers * chunksPerWorker
	if workers == 1 {
		target = 1
	}

	// Use int64 to prevent overflow in intermediate calculation
	chunkSize := int((int64(n) + int64(target) - 1) / int64(target))
	if chunkSize < 1 {
		chunkSize = 1
	}

	chunks := make([]Chunk, 0, (n+chunkSize-1)/chunkSize)
	for lo := 0; lo < n; lo += chunkSize {
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Lo: lo, Hi: hi})
	}
	return chunks
}

// ChunkFunc processes one chunk. Implementations should check ctx between
// units of work and return ctx.Err() when it is done.
type ChunkFunc func(ctx context.Context, chunk Chunk) error

// RunChunks executes fn for every chunk on a worker pool and returns the first
// error. After the first failure the remaining chunks are skipped and the
// context passed to running chunks is cancelled.
func RunChunks(ctx context.Context, workers int, chunks []Chunk, fn ChunkFunc, opts ...PoolOption) error {
	if len(chunks) == 0 {
		return ctx.Err()
	}
	workers = ResolveWorkers(workers)
	if workers > len(chunks) {
		workers = len(chunks)
	}

	if workers == 1 {
		for _, c := range chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := safeCall(ctx, fn, c); err != nil {
				return err
			}
		}
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := NewWorkerPool(workers, opts...)
	if err != nil {
		return err
	}

	var (
		firstErr error
		errOnce  sync.Once
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for _, c := range chunks {
		if runCtx.Err() != nil {
			break
		}
		chunk := c
		pool.Submit(func() {
			if runCtx.Err() != nil {
				return
			}
			if err := safeCall(runCtx, fn, chunk); err != nil {
				fail(err)
			}
		})
	}
	pool.Wait()

	if firstErr != nil {
		// A chunk that observed our own cancellation reports context.Canceled;
		// surface the caller's error instead when the parent was cancelled.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return firstErr
	}
	return ctx.Err()
}

// safeCall runs fn and converts a panic into an ErrTaskPanic error.
func safeCall(ctx context.Context, fn ChunkFunc, c Chunk) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: chunk %d [%d,%d): %v", ErrTaskPanic, c.Index, c.Lo, c.Hi, r)
		}
	}()
	return fn(ctx, c)
}
