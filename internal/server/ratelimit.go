package server

import (
	"sync"
	"time"
)

// MinuteRateLimiter counts requests per key in fixed 60-second windows.
type MinuteRateLimiter struct {
	mu           sync.Mutex
	maxPerMinute int
	bucket       map[string]windowCount
	now          func() time.Time
}

type windowCount struct {
	count int
	start time.Time
}

// NewMinuteRateLimiter allows up to maxPerMinute requests per key per
// minute. Zero or negative disables limiting.
func NewMinuteRateLimiter(maxPerMinute int) *MinuteRateLimiter {
	return &MinuteRateLimiter{
		maxPerMinute: maxPerMinute,
		bucket:       make(map[string]windowCount),
		now:          time.Now,
	}
}

// Allow records one request for key and reports whether it fits in the
// current window.
func (l *MinuteRateLimiter) Allow(key string) bool {
	if l.maxPerMinute <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	wc, ok := l.bucket[key]
	if !ok || now.Sub(wc.start) >= time.Minute {
		wc = windowCount{start: now}
	}
	if wc.count >= l.maxPerMinute {
		l.bucket[key] = wc
		return false
	}
	wc.count++
	l.bucket[key] = wc
	return true
}
