// Package results keeps completed simulation runs in memory so clients can
// fetch them again by id.
package results

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"solar-roi/internal/backtest"
)

// Run is a stored simulation result.
type Run struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time
	Result    *backtest.Result
}

// Cache is an in-memory TTL store of runs. Nothing survives a restart.
type Cache struct {
	mu    sync.RWMutex
	store map[string]*Run
	ttl   time.Duration
	now   func() time.Time

	done chan struct{}
	once sync.Once
}

// NewCache starts a cache whose entries live for ttl. A ttl <= 0 means one hour.
// Call Close to stop the background sweeper.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &Cache{
		store: make(map[string]*Run),
		ttl:   ttl,
		now:   time.Now,
		done:  make(chan struct{}),
	}
	go c.cleanup(sweepInterval(ttl))
	return c
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl < 5*time.Minute {
		return ttl
	}
	return 5 * time.Minute
}

// Put stores res under a fresh id.
func (c *Cache) Put(res *backtest.Result) Run {
	now := c.now()
	run := &Run{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
		Result:    res,
	}
	c.mu.Lock()
	c.store[run.ID] = run
	c.mu.Unlock()
	return *run
}

// Get returns the run if present and not expired.
func (c *Cache) Get(id string) (Run, bool) {
	if c == nil {
		return Run{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	run, ok := c.store[id]
	if !ok || c.now().After(run.ExpiresAt) {
		return Run{}, false
	}
	return *run, true
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *Cache) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Cache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, run := range c.store {
		if now.After(run.ExpiresAt) {
			delete(c.store, id)
		}
	}
}
