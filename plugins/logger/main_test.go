package main

import (
	"testing"

	"github.com/mysqlrouter/harness/internal/config"
	"github.com/mysqlrouter/harness/internal/descriptor"
)

func newInfo(t *testing.T, ini string) *descriptor.HarnessInfo {
	t.Helper()
	store, err := config.ParseBytes([]byte(ini), config.DefaultDirectories("testrouter"))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	return descriptor.NewHarnessInfo(store)
}

func TestPluginInitNoSectionIsANoop(t *testing.T) {
	info := newInfo(t, "")
	if err := pluginInit(info); err != nil {
		t.Fatalf("expected no error with no [logger] section, got %v", err)
	}
}

func TestPluginInitAppliesLevelAndFormat(t *testing.T) {
	info := newInfo(t, "[logger]\nlevel = debug\nformat = json\n")
	if err := pluginInit(info); err != nil {
		t.Fatalf("pluginInit: %v", err)
	}
}

func TestPluginInitRejectsMultipleSections(t *testing.T) {
	info := newInfo(t, "[logger:a]\nlevel = debug\n\n[logger:b]\nlevel = info\n")
	if err := pluginInit(info); err == nil {
		t.Fatal("expected error for more than one [logger] section")
	}
}

func TestPluginInitRejectsBadLevel(t *testing.T) {
	info := newInfo(t, "[logger]\nlevel = not-a-level\n")
	if err := pluginInit(info); err == nil {
		t.Fatal("expected error for an invalid log level")
	}
}

func TestHarnessPluginLoggerDescriptor(t *testing.T) {
	d := HarnessPlugin_logger()
	if d.ABI != descriptor.ABI {
		t.Errorf("expected descriptor ABI to match the harness's compiled-in ABI")
	}
	if d.Init == nil || d.Deinit == nil {
		t.Error("expected both Init and Deinit to be set")
	}
	if d.Start != nil {
		t.Error("expected no Start hook for the logger plugin")
	}
}
