package staff

import (
	"sync"
	"time"
)

// loginLimiter tracks failed login attempts per email over a sliding window.
// Process-local on purpose; the reference set it protects lives in the same
// process.
type loginLimiter struct {
	mutex    sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
}

func newLoginLimiter(max int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
	}
}

func (l *loginLimiter) exceeded(email string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	cutoff := time.Now().Add(-l.window)
	recent := l.attempts[email][:0]
	for _, at := range l.attempts[email] {
		if at.After(cutoff) {
			recent = append(recent, at)
		}
	}
	l.attempts[email] = recent
	return len(recent) >= l.max
}

func (l *loginLimiter) record(email string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.attempts[email] = append(l.attempts[email], time.Now())
}

func (l *loginLimiter) reset(email string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	delete(l.attempts, email)
}
