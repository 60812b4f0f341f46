package currency

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type rateEntry struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// RateCache keeps fetched USD based exchange rates for a limited time.
// Now is replaceable so tests can control expiry.
type RateCache struct {
	Now func() time.Time

	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]rateEntry
}

func NewRateCache(ttl time.Duration) *RateCache {
	return &RateCache{
		Now:     time.Now,
		ttl:     ttl,
		entries: make(map[string]rateEntry),
	}
}

// Get returns the cached rate for a currency if present and not expired.
func (c *RateCache) Get(currencyCode string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[currencyCode]
	if !ok {
		return decimal.Decimal{}, false
	}
	if c.Now().After(entry.fetchedAt.Add(c.ttl)) {
		delete(c.entries, currencyCode)
		return decimal.Decimal{}, false
	}
	return entry.rate, true
}

func (c *RateCache) Set(currencyCode string, rate decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[currencyCode] = rateEntry{
		rate:      rate,
		fetchedAt: c.Now(),
	}
}

func (c *RateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]rateEntry)
}
