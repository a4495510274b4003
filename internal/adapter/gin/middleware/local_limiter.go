package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const staleBucketAge = 3 * time.Minute

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// localBuckets keeps one in-process token bucket per key. It is used when no
// Redis client is configured, so limits are per instance.
type localBuckets struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	r         rate.Limit
	burst     int
	lastSweep time.Time
}

func newLocalBuckets(rps float64, burst int) *localBuckets {
	return &localBuckets{
		buckets: make(map[string]*bucket),
		r:       rate.Limit(rps),
		burst:   burst,
	}
}

func (lb *localBuckets) allow(key string, now time.Time) bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if now.Sub(lb.lastSweep) > time.Minute {
		for k, b := range lb.buckets {
			if now.Sub(b.seen) > staleBucketAge {
				delete(lb.buckets, k)
			}
		}
		lb.lastSweep = now
	}

	b, ok := lb.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(lb.r, lb.burst)}
		lb.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

func (lb *localBuckets) len() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.buckets)
}
