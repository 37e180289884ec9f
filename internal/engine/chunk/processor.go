package chunk

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MinChunkSize is the minimum allowed chunk size.
const MinChunkSize = 1

// Common chunk processing errors.
var (
	ErrNilCallback = errors.New("chunk callback cannot be nil")
	ErrEmptyRange  = errors.New("range cannot be empty")
)

// Callback processes the index window [lo, hi) of chunk chunkIndex (0-based).
type Callback func(ctx context.Context, lo, hi, chunkIndex int) error

// Processor splits an index range into fixed-size chunks.
type Processor struct {
	// chunkSize is the number of indexes per chunk.
	chunkSize int
}

// NewProcessorForWorkers creates a processor that splits total indexes into
// at most workers chunks of equal size (the last one may be shorter).
func NewProcessorForWorkers(total, workers int) *Processor {
	if workers < 1 {
		workers = 1
	}
	size := (total + workers - 1) / workers
	if size < MinChunkSize {
		size = MinChunkSize
	}
	return &Processor{chunkSize: size}
}

// Process walks the chunks of [0, total) in order and stops on the first error.
func (p *Processor) Process(ctx context.Context, total int, callback Callback) error {
	if total <= 0 {
		return ErrEmptyRange
	}
	if callback == nil {
		return ErrNilCallback
	}

	for i, c := range p.CalculateChunks(total) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := callback(ctx, c[0], c[1], i); err != nil {
			return fmt.Errorf("chunk %d failed: %w", i, err)
		}
	}

	return nil
}

// ProcessConcurrent processes the chunks of [0, total) with at most
// maxConcurrency callbacks in flight. The first error cancels the remaining
// chunks and is returned.
func (p *Processor) ProcessConcurrent(
	ctx context.Context,
	total int,
	callback Callback,
	maxConcurrency int,
) error {
	if total <= 0 {
		return ErrEmptyRange
	}
	if callback == nil {
		return ErrNilCallback
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for i, c := range p.CalculateChunks(total) {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			if err := callback(gCtx, c[0], c[1], i); err != nil {
				return fmt.Errorf("chunk %d failed: %w", i, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// CalculateChunks returns the [lo, hi) boundaries of every chunk of [0, total).
func (p *Processor) CalculateChunks(total int) [][2]int {
	if total <= 0 {
		return nil
	}
	count := (total + p.chunkSize - 1) / p.chunkSize
	chunks := make([][2]int, count)

	for i := range count {
		lo := i * p.chunkSize
		hi := min(lo+p.chunkSize, total)
		chunks[i] = [2]int{lo, hi}
	}

	return chunks
}
