package debounce

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of per-user triggers into a single callback
// invocation once the user has been quiet for the configured TTL. Used to
// let a mutation settle before recomputing achievement counters.
type Debouncer struct {
	mu     *sync.RWMutex
	dueAt  map[int64]time.Time
	stopCh chan struct{}

	quietFor time.Duration // how long a user must be quiet before firing
	tick     time.Duration // how often to check for due users
}

type Config struct {
	QuietFor time.Duration
	Tick     time.Duration
}

func New(cfg Config) *Debouncer {
	if cfg.QuietFor == 0 {
		cfg.QuietFor = 500 * time.Millisecond
	}
	if cfg.Tick == 0 {
		cfg.Tick = 250 * time.Millisecond
	}
	return &Debouncer{
		mu:       &sync.RWMutex{},
		dueAt:    make(map[int64]time.Time),
		stopCh:   make(chan struct{}, 1),
		quietFor: cfg.QuietFor,
		tick:     cfg.Tick,
	}
}

// Add schedules (or reschedules) a trigger for the user.
func (d *Debouncer) Add(userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dueAt[userID] = time.Now().Add(d.quietFor)
}

func (d *Debouncer) Stop() {
	d.stopCh <- struct{}{}
}

func (d *Debouncer) Run(onDue func(userID int64)) {
	go func() {
		ticker := time.NewTicker(d.tick)
		defer ticker.Stop()
		for {
			select {
			case <-d.stopCh:
				return
			case now := <-ticker.C:
				for _, userID := range d.collectDue(now) {
					onDue(userID)
				}
			}
		}
	}()
}

func (d *Debouncer) collectDue(now time.Time) []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	due := make([]int64, 0, len(d.dueAt))
	for userID, at := range d.dueAt {
		if at.Before(now) || at.Equal(now) {
			delete(d.dueAt, userID)
			due = append(due, userID)
		}
	}
	return due
}
