package catalog

import (
	"strconv"
	"sync"
	"time"
)

// idGenerator hands out millisecond timestamps as decimal strings. Values are
// strictly increasing within a process, so two calls in the same millisecond
// still get distinct ids.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDGenerator(now func() time.Time) *idGenerator {
	if now == nil {
		now = time.Now
	}
	return &idGenerator{now: now}
}

func (g *idGenerator) next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return ms
}

// uniqueID returns the next id not already used in products.
func (g *idGenerator) uniqueID(products []Product) string {
	taken := make(map[string]struct{}, len(products))
	for _, p := range products {
		taken[p.ID] = struct{}{}
	}
	for {
		id := strconv.FormatInt(g.next(), 10)
		if _, dup := taken[id]; !dup {
			return id
		}
	}
}
