package pattern

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// A Cache shares compiled patterns between the definitions that use them.
// Compiling the same expression with the same options twice returns the same *Pattern.
//
// A Cache is safe for concurrent use.
type Cache struct {
	c *cache.Cache
}

// NewCache creates a Cache whose entries are dropped after going unused for ttl.
// A ttl of zero keeps entries forever.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{c: cache.New(cache.NoExpiration, 0)}
	}
	return &Cache{c: cache.New(ttl, ttl)}
}

// Compile returns the cached pattern for expr and opts, compiling it on first use.
func (c *Cache) Compile(expr string, opts Options) (*Pattern, error) {
	key := "/" + expr + "/" + opts.String()
	if p, ok := c.c.Get(key); ok {
		// Refresh the expiration time; patterns in active use should stay.
		c.c.SetDefault(key, p)
		return p.(*Pattern), nil
	}
	p, err := Compile(expr, opts)
	if err != nil {
		return nil, err
	}
	c.c.SetDefault(key, p)
	return p, nil
}

// Len returns the number of patterns currently cached.
func (c *Cache) Len() int { return c.c.ItemCount() }

// Flush drops all cached patterns.
func (c *Cache) Flush() { c.c.Flush() }
