package chunk

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks items and steps (chunks or batches) processed so far.
// It is safe for concurrent use.
type Progress struct {
	// TotalItems is the total number of items to process.
	TotalItems int

	// ProcessedItems is the number of items processed so far.
	ProcessedItems int

	// TotalSteps is the total number of steps.
	TotalSteps int

	// ProcessedSteps is the number of steps processed so far.
	ProcessedSteps int

	// StartTime is when processing started.
	StartTime time.Time

	// LastUpdateTime is when progress was last updated.
	LastUpdateTime time.Time

	mu sync.RWMutex
}

// NewProgress creates a new progress tracker.
func NewProgress(totalItems, totalSteps int) *Progress {
	now := time.Now()
	return &Progress{
		TotalItems:     totalItems,
		TotalSteps:     totalSteps,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// AddProcessed records one completed step covering itemsProcessed items.
func (p *Progress) AddProcessed(itemsProcessed int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ProcessedItems += itemsProcessed
	p.ProcessedSteps++
	p.LastUpdateTime = time.Now()
}

// Snapshot returns a copy of the current progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProgressSnapshot{
		TotalItems:      p.TotalItems,
		ProcessedItems:  p.ProcessedItems,
		TotalSteps:      p.TotalSteps,
		ProcessedSteps:  p.ProcessedSteps,
		StartTime:       p.StartTime,
		LastUpdateTime:  p.LastUpdateTime,
		PercentComplete: p.percentCompleteUnsafe(),
		ElapsedTime:     time.Since(p.StartTime),
		ItemsPerSecond:  p.itemsPerSecondUnsafe(),
	}
}

// ProgressSnapshot is an immutable snapshot of progress state.
type ProgressSnapshot struct {
	TotalItems      int
	ProcessedItems  int
	TotalSteps      int
	ProcessedSteps  int
	StartTime       time.Time
	LastUpdateTime  time.Time
	PercentComplete float64
	ElapsedTime     time.Duration
	ItemsPerSecond  float64
}

// percentCompleteUnsafe must be called with the lock held.
func (p *Progress) percentCompleteUnsafe() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return (float64(p.ProcessedItems) / float64(p.TotalItems)) * percentMultiplier
}

// itemsPerSecondUnsafe must be called with the lock held.
func (p *Progress) itemsPerSecondUnsafe() float64 {
	elapsed := time.Since(p.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(p.ProcessedItems) / elapsed
}
