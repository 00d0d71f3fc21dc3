package fabriccache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

var registryTestUUID = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")

type fakeFetcher struct {
	result MetadataResult
}

func (f *fakeFetcher) Connect(context.Context) error { return nil }
func (f *fakeFetcher) Disconnect()                   {}
func (f *fakeFetcher) Fetch(context.Context) (MetadataResult, error) {
	return f.result, nil
}

func TestCacheInitIsIdempotent(t *testing.T) {
	reg := NewRegistry(nil)
	fetcher := &fakeFetcher{result: MetadataResult{
		Groups: map[string][]ManagedServer{"g1": {{ServerUUID: registryTestUUID, GroupID: "g1"}}},
		Shards: map[string][]ManagedShard{},
		TTL:    1,
	}}

	if err := reg.CacheInit(context.Background(), "fabric", fetcher); err != nil {
		t.Fatalf("CacheInit: %v", err)
	}
	if !reg.HaveCache("fabric") {
		t.Fatal("expected HaveCache to report true after init")
	}

	// Second call with the same name must be a no-op, not create a second
	// instance or re-warm.
	if err := reg.CacheInit(context.Background(), "fabric", &fakeFetcher{}); err != nil {
		t.Fatalf("second CacheInit: %v", err)
	}

	servers := reg.GroupLookup("fabric", "g1")
	if len(servers) != 1 || servers[0].ServerUUID != registryTestUUID {
		t.Fatalf("expected warm-up data to survive the no-op re-init, got %v", servers)
	}

	reg.Teardown("fabric")
	if reg.HaveCache("fabric") {
		t.Fatal("expected HaveCache to report false after teardown")
	}
}

func TestCacheInitWarmsSynchronously(t *testing.T) {
	reg := NewRegistry(nil)
	fetcher := &fakeFetcher{result: MetadataResult{
		Groups: map[string][]ManagedServer{"g1": {{ServerUUID: registryTestUUID, GroupID: "g1"}}},
		Shards: map[string][]ManagedShard{},
		TTL:    60,
	}}

	if err := reg.CacheInit(context.Background(), "fabric", fetcher); err != nil {
		t.Fatalf("CacheInit: %v", err)
	}

	// The synchronous warm-up fetch must already be visible without
	// waiting for the background refresher's first tick.
	servers := reg.GroupLookup("fabric", "g1")
	if len(servers) != 1 {
		t.Fatalf("expected warm cache immediately after CacheInit, got %v", servers)
	}

	reg.Teardown("fabric")
}

func TestHaveCacheUnknownName(t *testing.T) {
	reg := NewRegistry(nil)
	if reg.HaveCache("nonexistent") {
		t.Error("expected HaveCache to report false for an unknown name")
	}
	if servers := reg.GroupLookup("nonexistent", "g1"); servers != nil {
		t.Errorf("expected nil lookup against an unknown cache, got %v", servers)
	}
}

func TestCacheInitReturnsPromptly(t *testing.T) {
	reg := NewRegistry(nil)
	fetcher := &fakeFetcher{result: MetadataResult{TTL: 3600}}

	start := time.Now()
	if err := reg.CacheInit(context.Background(), "fabric", fetcher); err != nil {
		t.Fatalf("CacheInit: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("CacheInit must return promptly, not block on the refresher loop; took %v", elapsed)
	}
	reg.Teardown("fabric")
}
