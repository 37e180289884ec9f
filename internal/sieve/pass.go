package sieve

import (
	"context"

	"github.com/rshade/sieve/internal/engine/chunk"
)

// passContext carries the collaborators of a single sieve pass.
type passContext struct {
	// workers > 1 marks the chunks of a dependent batch in parallel.
	workers int

	// onMark is invoked once per marking operation applied to the batch.
	onMark func(p uint64)
}

// sieve runs the one-way sieve pass of b against the completed history and
// returns the number of marking operations applied.
func (b *Batch) sieve(ctx context.Context, history []*Batch, pc passContext) int {
	if b.sieved {
		panic("sieve: batch sieved twice")
	}

	var calls int
	if b.start <= 1 {
		calls = b.bootstrap(pc)
	} else {
		calls = b.dependent(ctx, history, pc)
	}
	b.sieved = true
	return calls
}

// bootstrap sieves a batch that covers 0 and/or 1 with a classical simple
// sieve. 0 and 1 are not primes by convention and are marked directly; every
// composite below the batch length has an unmarked factor c with c*c <= length
// earlier in the same batch.
func (b *Batch) bootstrap(pc passContext) int {
	for _, v := range [...]uint64{0, 1} {
		if b.Contains(v) {
			b.marks[v-b.start] = true
		}
	}

	length := b.Len()
	calls := 0
	for c := max(uint64(2), b.start); c*c <= length; c++ {
		if b.marks[c-b.start] {
			continue
		}
		pc.onMark(c)
		b.Mark(c)
		calls++
	}
	return calls
}

// dependent sieves a batch using only primes discovered in earlier batches.
//
// For each completed batch, primes are consumed in ascending order until one
// exceeds the square root of the batch end; that stops the scan of the current
// completed batch only, later ones are still visited.
func (b *Batch) dependent(ctx context.Context, history []*Batch, pc passContext) int {
	end := b.End()

	var primes []uint64
	for _, done := range history {
		for p := range done.Primes() {
			if exceedsRoot(p, end) {
				break
			}
			pc.onMark(p)
			primes = append(primes, p)
		}
	}
	b.markChunks(ctx, primes, pc.workers)
	return len(primes)
}

// markChunks applies every prime to disjoint index chunks of the batch, one
// chunk per worker. A single worker walks its one chunk inline; more run in
// parallel. Each worker owns its chunk, so no two goroutines write the same flag.
func (b *Batch) markChunks(ctx context.Context, primes []uint64, workers int) {
	if len(primes) == 0 {
		return
	}

	proc := chunk.NewProcessorForWorkers(len(b.marks), workers)
	mark := func(_ context.Context, lo, hi, _ int) error {
		for _, p := range primes {
			b.markRange(p, lo, hi)
		}
		return nil
	}

	// A started pass always completes; cancellation is honoured between batches.
	passCtx := context.WithoutCancel(ctx)
	var err error
	if workers <= 1 {
		err = proc.Process(passCtx, len(b.marks), mark)
	} else {
		err = proc.ProcessConcurrent(passCtx, len(b.marks), mark, workers)
	}
	if err != nil {
		panic("sieve: marking failed: " + err.Error())
	}
}

// exceedsRoot reports p*p > n without overflowing.
func exceedsRoot(p, n uint64) bool {
	return p > n/p
}
