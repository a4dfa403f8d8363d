package play

import (
	"sync"
	"time"
)

// RollLogSize is the number of entries a RollLog keeps.
const RollLogSize = 12

// RollLog is a bounded, newest-first log of play events.
type RollLog struct {
	mu      sync.Mutex
	now     func() time.Time
	entries []string
}

// NewRollLog returns an empty log stamped by now. A nil now uses time.Now.
func NewRollLog(now func() time.Time) *RollLog {
	if now == nil {
		now = time.Now
	}
	return &RollLog{now: now}
}

// Push records text as "HH:MM:SS - text" and returns the entry.
func (l *RollLog) Push(text string) string {
	entry := l.now().Format("15:04:05") + " - " + text
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]string{entry}, l.entries...)
	if len(l.entries) > RollLogSize {
		l.entries = l.entries[:RollLogSize]
	}
	return entry
}

// Entries returns the log, newest first.
func (l *RollLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}
