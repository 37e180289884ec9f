package sieve

import "iter"

// Batch is a contiguous, power-of-two sized slice [start, start+len) of the
// number line with its own composite marks. A batch is mutated once, during
// its sieve pass, and is read-only once it joins the completed list.
type Batch struct {
	index  int
	start  uint64
	marks  []bool // marks[i] reports start+i as composite
	sieved bool
}

// newBatch allocates an unsieved batch for span. All numbers start as candidates.
func newBatch(span Span) *Batch {
	return &Batch{
		index: span.Index,
		start: span.Start,
		marks: make([]bool, span.Length),
	}
}

// Index returns the position of the batch in its layout.
func (b *Batch) Index() int { return b.index }

// Start returns the first number covered by the batch.
func (b *Batch) Start() uint64 { return b.start }

// Len returns the number of consecutive integers covered by the batch.
func (b *Batch) Len() uint64 { return uint64(len(b.marks)) }

// End returns the exclusive upper bound of the batch.
func (b *Batch) End() uint64 { return b.start + uint64(len(b.marks)) }

// Sieved reports whether the sieve pass has completed.
func (b *Batch) Sieved() bool { return b.sieved }

// Contains reports whether n lies inside [Start, End).
func (b *Batch) Contains(n uint64) bool {
	return n >= b.start && n < b.End()
}

// IsComposite reports the mark for n. It panics when n lies outside the batch.
func (b *Batch) IsComposite(n uint64) bool {
	return b.marks[n-b.start]
}

// Mark sets every multiple p*k (k >= 2) inside the batch as composite.
// Marking is idempotent.
func (b *Batch) Mark(p uint64) {
	b.markRange(p, 0, len(b.marks))
}

// markRange marks the multiples of p whose index lies in [lo, hi).
//
// The scan starts at multiplier max(2, from/p), which is at most one step
// before the first multiple inside the range, so multiples that belong to
// earlier batches are never walked again.
func (b *Batch) markRange(p uint64, lo, hi int) {
	from := b.start + uint64(lo)
	to := b.start + uint64(hi)

	k := max(2, from/p)
	for m := p * k; m < to; m += p {
		if m >= from {
			b.marks[m-b.start] = true
		}
	}
}

// Primes yields, in ascending order, every number of the batch that is not
// marked composite. The sequence is only meaningful after the sieve pass.
func (b *Batch) Primes() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for i, composite := range b.marks {
			if composite {
				continue
			}
			if !yield(b.start + uint64(i)) {
				return
			}
		}
	}
}

// Count returns the number of primes in the batch.
func (b *Batch) Count() int {
	n := 0
	for _, composite := range b.marks {
		if !composite {
			n++
		}
	}
	return n
}
