package cache

import "time"

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64        `json:"hits"`
	Misses    uint64        `json:"misses"`
	Sets      uint64        `json:"sets"`
	Evictions uint64        `json:"evictions"`
	Size      int           `json:"size"`
	MaxSize   int           `json:"max_size"`
	TTL       time.Duration `json:"ttl"`
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns a consistent snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Sets:      c.sets,
		Evictions: c.evictions,
		Size:      c.order.Len(),
		MaxSize:   c.maxSize,
		TTL:       c.ttl,
	}
}
