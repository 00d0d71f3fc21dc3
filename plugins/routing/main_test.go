package main

import (
	"testing"

	"github.com/mysqlrouter/harness/internal/config"
	"github.com/mysqlrouter/harness/internal/descriptor"
	"github.com/mysqlrouter/harness/internal/routing"
)

func newInfo(t *testing.T, ini string) *descriptor.HarnessInfo {
	t.Helper()
	store, err := config.ParseBytes([]byte(ini), config.DefaultDirectories("testrouter"))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	return descriptor.NewHarnessInfo(store)
}

func TestParseDestinationsSplitsAndTrims(t *testing.T) {
	dests, err := parseDestinations(" 10.0.0.1:3306 , 10.0.0.2:3307 ")
	if err != nil {
		t.Fatalf("parseDestinations: %v", err)
	}
	if len(dests) != 2 || dests[0].Host != "10.0.0.1" || dests[0].Port != 3306 {
		t.Errorf("unexpected destinations: %+v", dests)
	}
}

func TestParseDestinationsRejectsEmptyList(t *testing.T) {
	if _, err := parseDestinations(""); err == nil {
		t.Fatal("expected error for an empty destination list")
	}
}

func TestParseDestinationsRejectsMalformedEntry(t *testing.T) {
	if _, err := parseDestinations("not-a-host-port"); err == nil {
		t.Fatal("expected error for a destination missing a port")
	}
}

func TestPluginInitRequiresDestinations(t *testing.T) {
	info := newInfo(t, "[routing]\n")
	if err := pluginInit(info); err == nil {
		t.Fatal("expected error when destinations is missing")
	}
}

func TestPluginInitRegistersSelectorPerSection(t *testing.T) {
	mu.Lock()
	selectors = map[string]*routing.Selector{}
	mu.Unlock()

	info := newInfo(t, "[routing:r1]\ndestinations = 10.0.0.1:3306,10.0.0.2:3306\n")
	if err := pluginInit(info); err != nil {
		t.Fatalf("pluginInit: %v", err)
	}

	mu.Lock()
	_, ok := selectors["r1"]
	mu.Unlock()
	if !ok {
		t.Fatal("expected a selector registered under key r1")
	}

	if err := pluginDeinit(info); err != nil {
		t.Fatalf("pluginDeinit: %v", err)
	}
	mu.Lock()
	_, ok = selectors["r1"]
	mu.Unlock()
	if ok {
		t.Fatal("expected selector to be dropped after deinit")
	}
}

func TestHarnessPluginRoutingDescriptor(t *testing.T) {
	d := HarnessPlugin_routing()
	if len(d.Requires) != 1 || d.Requires[0] != "logger" {
		t.Errorf("expected routing to require logger, got %v", d.Requires)
	}
	if d.Start == nil {
		t.Error("expected a Start hook for the routing plugin")
	}
}
