package fabriccache

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry is a harness-owned collection of named Fabric Cache instances,
// passed around as an explicit value rather than reached for as a
// singleton.
type Registry struct {
	mu     sync.Mutex
	caches map[string]*Cache
	log    *logrus.Entry
}

// NewRegistry creates an empty Registry.
func NewRegistry(log *logrus.Entry) *Registry {
	return &Registry{caches: map[string]*Cache{}, log: log}
}

// CacheInit creates exactly one named cache instance; a second call with
// the same name is a no-op. It performs one synchronous refresh to warm
// the cache before returning, then spawns the background refresher — it
// does not block waiting for the refresher to exit.
func (r *Registry) CacheInit(ctx context.Context, name string, fetcher Fetcher) error {
	r.mu.Lock()
	if _, exists := r.caches[name]; exists {
		r.mu.Unlock()
		return nil
	}
	c := newCache()
	r.caches[name] = c
	r.mu.Unlock()

	return c.start(ctx, fetcher, r.log)
}

// HaveCache reports whether a cache with the given name has been
// initialized.
func (r *Registry) HaveCache(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.caches[name]
	return ok
}

// GroupLookup delegates to the named cache, returning nil if the cache or
// group is unknown.
func (r *Registry) GroupLookup(name, groupID string) []ManagedServer {
	r.mu.Lock()
	c, ok := r.caches[name]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return c.GroupLookup(groupID)
}

// ShardLookup delegates to the named cache, returning nil if the cache is
// unknown.
func (r *Registry) ShardLookup(name, tableName, shardKey string) ([]ManagedServer, error) {
	r.mu.Lock()
	c, ok := r.caches[name]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return c.ShardLookup(tableName, shardKey)
}

// Teardown stops the named cache's refresher and removes it from the
// registry, blocking until the refresher goroutine has exited.
func (r *Registry) Teardown(name string) {
	r.mu.Lock()
	c, ok := r.caches[name]
	delete(r.caches, name)
	r.mu.Unlock()
	if ok {
		c.stopRefresher()
	}
}
