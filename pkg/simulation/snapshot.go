package simulation

import (
	"context"
	"sync/atomic"
	"time"
)

// Latest hands the most recent StateVector from the tick loop to readers.
// One goroutine stores, any number load. Each Store publishes a fresh copy,
// so a loaded value never changes underneath the reader.
type Latest struct {
	p atomic.Pointer[StateVector]
}

// Store publishes s as the latest snapshot
func (l *Latest) Store(s StateVector) {
	l.p.Store(&s)
}

// Load returns the latest snapshot, or false if none was published yet
func (l *Latest) Load() (StateVector, bool) {
	s := l.p.Load()
	if s == nil {
		return StateVector{}, false
	}
	return *s, true
}

// Watch calls fn with the latest snapshot every interval until ctx is done.
// Ticks before the first snapshot is published are skipped. Watch only reads
// from latest, so it can run at a different cadence than the tick loop.
func Watch(ctx context.Context, latest *Latest, interval time.Duration, fn func(StateVector)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s, ok := latest.Load(); ok {
				fn(s)
			}
		}
	}
}
