// Command metadatacache is the Fabric Cache plugin: its init hook
// registers one named cache per configuration section key, start performs
// nothing beyond holding the worker slot open (the cache's own background
// refresher already runs independently of this goroutine), and deinit
// tears every registered cache down. The registry this plugin owns is its
// own package-level state, scoped to this plugin's shared object, not a
// harness-wide singleton other plugins can reach into.
package main

import (
	"context"
	"fmt"

	"github.com/mysqlrouter/harness/internal/config"
	"github.com/mysqlrouter/harness/internal/descriptor"
	"github.com/mysqlrouter/harness/internal/fabriccache"
	"github.com/mysqlrouter/harness/internal/pluginversion"
	"github.com/mysqlrouter/harness/log"
)

const sectionName = "metadatacache"
const defaultFabricPort uint16 = 32274

var registry = fabriccache.NewRegistry(log.ForPlugin("metadatacache"))

func pluginInit(info *descriptor.HarnessInfo) error {
	sections := info.Config.Get(sectionName)
	for _, sec := range sections {
		host, port, err := config.GetTCPAddress(sec, "address", defaultFabricPort, false)
		if err != nil {
			return fmt.Errorf("%s: %w", sectionName, err)
		}
		user, err := config.GetOptionString(sec, "user", config.OptionSpec{Required: true})
		if err != nil {
			return fmt.Errorf("%s: %w", sectionName, err)
		}
		password, _ := config.GetOptionString(sec, "password", config.OptionSpec{})

		fetcher := fabriccache.NewSQLFetcher(host, port, user, password)
		if err := fetcher.Connect(context.Background()); err != nil {
			return fmt.Errorf("%s: connect to fabric at %s:%d: %w", sectionName, host, port, err)
		}
		if err := registry.CacheInit(context.Background(), sec.Key, fetcher); err != nil {
			return fmt.Errorf("%s: %w", sectionName, err)
		}
	}
	return nil
}

func pluginDeinit(info *descriptor.HarnessInfo) error {
	for _, sec := range info.Config.Get(sectionName) {
		registry.Teardown(sec.Key)
	}
	return nil
}

func pluginStart(ctx context.Context, info *descriptor.HarnessInfo) error {
	<-ctx.Done()
	return nil
}

// HarnessPlugin_metadatacache is the symbol the loader resolves.
func HarnessPlugin_metadatacache() descriptor.Descriptor {
	return descriptor.Descriptor{
		ABI:      descriptor.ABI,
		Brief:    "Fabric Cache: topology and sharding metadata cache",
		Version:  pluginversion.Version{Major: 1, Minor: 0, Patch: 0},
		Requires: []string{"logger"},
		Init:     pluginInit,
		Deinit:   pluginDeinit,
		Start:    pluginStart,
	}
}

func main() {}
