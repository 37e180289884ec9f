package sieve

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"

	"github.com/rshade/sieve/internal/engine/chunk"
)

// MarkHook observes every marking operation applied during a sieve pass.
// batchIndex identifies the batch being sieved, p the prime used.
type MarkHook func(batchIndex int, p uint64)

// ProgressFunc receives a snapshot after each completed batch.
// Items are numbers sieved, steps are batches.
type ProgressFunc func(snapshot chunk.ProgressSnapshot)

// Space owns the batch layout of one analysis: a FIFO queue of unsieved
// batches and the append-only list of completed ones.
type Space struct {
	minPower  uint
	magnitude uint
	workers   int

	// pending holds *Batch values in ascending start order.
	pending *queue.Queue

	// completed is append-only; its batches are never mutated again.
	completed []*Batch

	total      uint64
	hook       MarkHook
	onProgress ProgressFunc
	progress   *chunk.Progress
	log        zerolog.Logger
}

// Option configures a Space.
type Option func(*Space)

// WithMinPower sets the power of the first batch. Defaults to DefaultMinPower.
func WithMinPower(m uint) Option {
	return func(s *Space) {
		s.minPower = m
	}
}

// WithWorkers shards each dependent sieve pass across n workers.
// Values below 2 keep the pass sequential.
func WithWorkers(n int) Option {
	return func(s *Space) {
		s.workers = n
	}
}

// WithLogger injects the diagnostic sink. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Space) {
		s.log = l
	}
}

// WithMarkHook installs an instrumentation hook called for every marking operation.
func WithMarkHook(h MarkHook) Option {
	return func(s *Space) {
		s.hook = h
	}
}

// WithProgress installs a callback invoked after each completed batch.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Space) {
		s.onProgress = fn
	}
}

// NewSpace builds the full batch layout for magnitude and enqueues every
// batch unsieved. No sieving happens until Step or ComputeAll is called.
//
// Example:
//
//	space, err := sieve.NewSpace(16, sieve.WithMinPower(8))
//	if err != nil { ... }
//	err = space.ComputeAll(ctx)
func NewSpace(magnitude uint, opts ...Option) (*Space, error) {
	s := &Space{
		minPower:  DefaultMinPower,
		magnitude: magnitude,
		workers:   1,
		pending:   queue.New(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	spans, err := Layout(s.minPower, s.magnitude)
	if err != nil {
		return nil, err
	}

	for _, span := range spans {
		s.log.Trace().
			Int("batch", span.Index).
			Uint("power", span.Power).
			Uint64("start", span.Start).
			Uint64("length", span.Length).
			Msg("batch allocated")
		s.pending.Add(newBatch(span))
		s.total += span.Length
	}
	s.progress = chunk.NewProgress(int(s.total), len(spans))

	s.log.Debug().
		Uint("min_power", s.minPower).
		Uint("magnitude", s.magnitude).
		Int("batches", len(spans)).
		Uint64("total", s.total).
		Msg("layout built")

	return s, nil
}

// MinPower returns the power of the first batch.
func (s *Space) MinPower() uint { return s.minPower }

// Magnitude returns the requested magnitude.
func (s *Space) Magnitude() uint { return s.magnitude }

// Total returns the size of the analyzed range [0, Total).
func (s *Space) Total() uint64 { return s.total }

// Pending returns the number of batches not yet sieved.
func (s *Space) Pending() int { return s.pending.Length() }

// Completed returns the completed batches in ascending start order.
// The returned slice is a copy; the batches themselves are read-only.
func (s *Space) Completed() []*Batch {
	return slices.Clone(s.completed)
}

// Step sieves the batch at the front of the pending queue against every
// completed batch and moves it to the completed list. It reports whether
// batches remain. ctx is checked before the pass starts; a started pass
// always finishes.
func (s *Space) Step(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return s.pending.Length() > 0, err
	}
	if s.pending.Length() == 0 {
		return false, nil
	}

	b, _ := s.pending.Remove().(*Batch)

	pc := passContext{
		workers: s.workers,
		onMark:  func(uint64) {},
	}
	if s.hook != nil {
		index := b.index
		pc.onMark = func(p uint64) { s.hook(index, p) }
	}

	calls := b.sieve(ctx, s.completed, pc)
	s.completed = append(s.completed, b)
	s.progress.AddProcessed(int(b.Len()))

	if e := s.log.Debug(); e.Enabled() {
		e.Int("batch", b.index).
			Uint64("start", b.start).
			Uint64("length", b.Len()).
			Int("marking_calls", calls).
			Int("primes", b.Count()).
			Msg("batch completed")
	}
	if s.onProgress != nil {
		s.onProgress(s.progress.Snapshot())
	}

	return s.pending.Length() > 0, nil
}

// ComputeAll drains the pending queue in order. When ctx is cancelled the
// Space stays consistent: completed batches are final and the rest remain
// pending.
func (s *Space) ComputeAll(ctx context.Context) error {
	started := time.Now()
	for {
		more, err := s.Step(ctx)
		if err != nil {
			s.log.Warn().Err(err).
				Int("completed", len(s.completed)).
				Int("pending", s.pending.Length()).
				Msg("sieve interrupted")
			return err
		}
		if !more {
			break
		}
	}

	s.log.Info().
		Int("batches", len(s.completed)).
		Uint64("total", s.total).
		Dur("elapsed", time.Since(started)).
		Msg("sieve complete")
	return nil
}

// Primes yields every discovered prime across the completed batches in
// ascending order.
func (s *Space) Primes() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for _, b := range s.completed {
			for p := range b.Primes() {
				if !yield(p) {
					return
				}
			}
		}
	}
}

// Count returns the number of primes found in the completed batches.
func (s *Space) Count() int {
	n := 0
	for _, b := range s.completed {
		n += b.Count()
	}
	return n
}
