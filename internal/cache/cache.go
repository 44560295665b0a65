// Package cache keeps recently uploaded packets in memory.
package cache

import (
	"sync"

	"github.com/dgryski/go-tinylfu"
	"go.uber.org/zap"

	"github.com/notepid/twilight_qwk/internal/logger"
	"github.com/notepid/twilight_qwk/internal/packet"
)

// Cache is a bounded set of decoded packets keyed by their fingerprint.
// It is safe for concurrent use.
type Cache struct {
	mu  sync.Mutex
	lfu *tinylfu.T[uint64, *packet.Packet]
}

const minEntries = 3

// New returns a cache holding at most entries packets.
func New(entries int) *Cache {
	// tinylfu's protected segment is empty below three entries and Get panics.
	if entries < minEntries {
		entries = minEntries
	}
	return &Cache{
		lfu: tinylfu.New[uint64, *packet.Packet](entries, entries*10, identity,
			tinylfu.OnEvict(func(key uint64, p *packet.Packet) {
				logger.Debug("packet evicted", zap.Uint64("fingerprint", key), zap.String("bbs", p.BBS.Name))
			})),
	}
}

// fingerprints are already xxhash digests
func identity(k uint64) uint64 { return k }

// Get returns the packet stored under key.
func (c *Cache) Get(key uint64) (*packet.Packet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lfu.Get(key)
}

// Add stores p under key.
func (c *Cache) Add(key uint64, p *packet.Packet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lfu.Add(key, p)
}
