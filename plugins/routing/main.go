// Command routing owns one internal/routing.Selector per configured
// routing section: init parses its "destinations" option and builds the
// selector, start holds the worker slot open and periodically exercises
// Connect as a liveness probe, deinit drops the section's selector. Every
// connect attempt uses the fixed defaultConnectTimeout (five seconds); a
// "connect_timeout" option in the section is not read. The proxy accept loop and wire codec a full router
// plugin would also run are out of scope; what is implemented here is the
// destination failover policy itself.
package main

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mysqlrouter/harness/internal/config"
	"github.com/mysqlrouter/harness/internal/descriptor"
	"github.com/mysqlrouter/harness/internal/pluginversion"
	"github.com/mysqlrouter/harness/internal/routing"
)

const sectionName = "routing"
const defaultConnectTimeout = 5 * time.Second

var (
	mu        sync.Mutex
	selectors = map[string]*routing.Selector{}
)

func pluginInit(info *descriptor.HarnessInfo) error {
	for _, sec := range info.Config.Get(sectionName) {
		raw, err := config.GetOptionString(sec, "destinations", config.OptionSpec{Required: true})
		if err != nil {
			return fmt.Errorf("%s: %w", sectionName, err)
		}
		dests, err := parseDestinations(raw)
		if err != nil {
			return fmt.Errorf("%s:%s: %w", sectionName, sec.Key, err)
		}

		mu.Lock()
		selectors[sec.Key] = routing.New(dests, &net.Dialer{Timeout: defaultConnectTimeout})
		mu.Unlock()
	}
	return nil
}

func pluginDeinit(info *descriptor.HarnessInfo) error {
	mu.Lock()
	defer mu.Unlock()
	for _, sec := range info.Config.Get(sectionName) {
		delete(selectors, sec.Key)
	}
	return nil
}

func pluginStart(ctx context.Context, info *descriptor.HarnessInfo) error {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			probeAll(ctx)
		}
	}
}

func probeAll(ctx context.Context) {
	mu.Lock()
	snapshot := make(map[string]*routing.Selector, len(selectors))
	for k, v := range selectors {
		snapshot[k] = v
	}
	mu.Unlock()

	for _, sel := range snapshot {
		conn, err := sel.Connect(ctx, defaultConnectTimeout)
		if err == nil {
			conn.Close()
		}
	}
}

// parseDestinations splits a comma-separated "host:port,host:port" list
// into routing.Destination values.
func parseDestinations(raw string) ([]routing.Destination, error) {
	var dests []routing.Destination
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		host, portStr, err := net.SplitHostPort(part)
		if err != nil {
			return nil, fmt.Errorf("malformed destination %q: %w", part, err)
		}
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("malformed port in destination %q: %w", part, err)
		}
		dests = append(dests, routing.Destination{Host: host, Port: uint16(port)})
	}
	if len(dests) == 0 {
		return nil, fmt.Errorf("destinations list is empty")
	}
	return dests, nil
}

// HarnessPlugin_routing is the symbol the loader resolves.
func HarnessPlugin_routing() descriptor.Descriptor {
	return descriptor.Descriptor{
		ABI:      descriptor.ABI,
		Brief:    "MySQL protocol routing: first-available destination failover",
		Version:  pluginversion.Version{Major: 1, Minor: 0, Patch: 0},
		Requires: []string{"logger"},
		Init:     pluginInit,
		Deinit:   pluginDeinit,
		Start:    pluginStart,
	}
}

func main() {}
