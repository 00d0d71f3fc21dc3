package fabriccache

import "sync"

// snapshot is the cache's entire state at one point in time: the group
// table and shard table fetched together in a single refresh, so a reader
// can never observe a group table from one cycle paired with a shard
// table from another.
type snapshot struct {
	groups map[string][]ManagedServer
	shards map[string][]ManagedShard
}

// Cache is one named Fabric Cache instance. Readers take the shared lock
// only long enough to copy the snapshot pointer; the refresher takes the
// exclusive lock only across the pointer swap, never while talking to the
// coordinator.
type Cache struct {
	mu  sync.RWMutex
	cur *snapshot

	stop chan chan struct{}
	wg   sync.WaitGroup
}

func newCache() *Cache {
	return &Cache{
		cur:  &snapshot{groups: map[string][]ManagedServer{}, shards: map[string][]ManagedShard{}},
		stop: make(chan chan struct{}, 1),
	}
}

// GroupLookup returns the servers registered under group_id, or nil if the
// group is unknown.
func (c *Cache) GroupLookup(groupID string) []ManagedServer {
	c.mu.RLock()
	snap := c.cur
	c.mu.RUnlock()
	return snap.groups[groupID]
}

// ShardLookup implements the shard-selection rule: among the shards for
// tableName whose lower bound is <= shardKey, pick the one with the
// maximum lower bound, then return that shard's group's servers. Returns
// nil if the table is unknown, the key predates every shard, or the
// comparator fails to parse either value.
func (c *Cache) ShardLookup(tableName, shardKey string) ([]ManagedServer, error) {
	c.mu.RLock()
	snap := c.cur
	c.mu.RUnlock()

	shards, ok := snap.shards[tableName]
	if !ok || len(shards) == 0 {
		return nil, nil
	}

	kind := shards[0].TypeName
	var best *ManagedShard
	for i := range shards {
		s := &shards[i]
		cmp, err := Compare(kind, shardKey, s.LowerBound)
		if err != nil {
			return nil, err
		}
		if cmp < 0 {
			continue // shardKey < lower bound: this shard does not cover it
		}
		if best == nil {
			best = s
			continue
		}
		betterCmp, err := Compare(kind, s.LowerBound, best.LowerBound)
		if err != nil {
			return nil, err
		}
		if betterCmp > 0 {
			best = s
		}
	}

	if best == nil {
		return nil, nil
	}
	return snap.groups[best.GroupID], nil
}

// swap atomically replaces the cache's snapshot with the newly fetched
// group and shard tables, both at once.
func (c *Cache) swap(groups map[string][]ManagedServer, shards map[string][]ManagedShard) {
	next := &snapshot{groups: groups, shards: shards}
	c.mu.Lock()
	c.cur = next
	c.mu.Unlock()
}
