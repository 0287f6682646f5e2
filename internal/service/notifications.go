package service

import (
	"sync"
	"time"
)

// Notification is one unlocked achievement waiting to be shown.
type Notification struct {
	Achievement Achievement
	Timestamp   time.Time
}

// Notifications keeps a per-user FIFO of unlocked achievements and drains
// it into a single visible slot. Only one achievement is ever visible at a
// time; a burst of unlocks displays sequentially. The queue is transient UI
// state and is not persisted.
type Notifications struct {
	mu      sync.Mutex
	queues  map[int64][]Notification
	current map[int64]*Notification
	pending map[int64]bool

	showDelay    time.Duration // wait before showing when nothing is visible
	advanceDelay time.Duration // wait after hide before showing the next
	now          func() time.Time
}

func NewNotifications(showDelay, advanceDelay time.Duration) *Notifications {
	if showDelay <= 0 {
		showDelay = 500 * time.Millisecond
	}
	if advanceDelay <= 0 {
		advanceDelay = 300 * time.Millisecond
	}
	return &Notifications{
		queues:       make(map[int64][]Notification),
		current:      make(map[int64]*Notification),
		pending:      make(map[int64]bool),
		showDelay:    showDelay,
		advanceDelay: advanceDelay,
		now:          time.Now,
	}
}

// Unlock enqueues an achievement for display.
func (n *Notifications) Unlock(userID int64, a Achievement) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.queues[userID] = append(n.queues[userID], Notification{
		Achievement: a,
		Timestamp:   n.now(),
	})
	n.scheduleAdvanceLocked(userID, n.showDelay)
}

// Current returns the currently visible notification, if any.
func (n *Notifications) Current(userID int64) (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if cur := n.current[userID]; cur != nil {
		return *cur, true
	}
	return Notification{}, false
}

// HideCurrent dismisses the visible notification and, after a short delay,
// shows the next pending one if any.
func (n *Notifications) HideCurrent(userID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current[userID] = nil
	n.scheduleAdvanceLocked(userID, n.advanceDelay)
}

// Reset drops all queued and visible notifications for the user.
func (n *Notifications) Reset(userID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.queues, userID)
	delete(n.current, userID)
}

func (n *Notifications) scheduleAdvanceLocked(userID int64, delay time.Duration) {
	if n.current[userID] != nil || n.pending[userID] || len(n.queues[userID]) == 0 {
		return
	}
	n.pending[userID] = true
	time.AfterFunc(delay, func() {
		n.advance(userID)
	})
}

func (n *Notifications) advance(userID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending[userID] = false
	if n.current[userID] != nil {
		return
	}
	queue := n.queues[userID]
	if len(queue) == 0 {
		return
	}
	head := queue[0]
	n.queues[userID] = queue[1:]
	n.current[userID] = &head
}
