package server

import (
	"sync"

	"github.com/taigrr/tinyrender/pkg/scenes"
	"github.com/taigrr/tinyrender/pkg/shader"
	"golang.org/x/sync/singleflight"
)

// Cache loads each scene once and hands the same read-only value to every
// later caller. Concurrent first requests for one path share a single load.
// Failed loads are not remembered.
type Cache struct {
	load  scenes.LoadFunc
	group singleflight.Group

	mu     sync.RWMutex
	scenes map[string]*shader.Scene
}

// NewCache wraps load, or shader.LoadScene when load is nil.
func NewCache(load scenes.LoadFunc) *Cache {
	if load == nil {
		load = shader.LoadScene
	}
	return &Cache{load: load, scenes: make(map[string]*shader.Scene)}
}

// Load returns the scene for path, loading it on first use.
func (c *Cache) Load(path string) (*shader.Scene, error) {
	c.mu.RLock()
	sc, ok := c.scenes[path]
	c.mu.RUnlock()
	if ok {
		return sc, nil
	}

	v, err, _ := c.group.Do(path, func() (any, error) {
		sc, err := c.load(path)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.scenes[path] = sc
		c.mu.Unlock()
		return sc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*shader.Scene), nil
}

// Len returns the number of cached scenes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.scenes)
}
