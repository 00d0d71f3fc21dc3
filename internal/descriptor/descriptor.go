// Package descriptor defines the Plugin Descriptor: the stable layout a
// plugin exposes as its single exported symbol, and the read-only
// HarnessInfo snapshot the harness hands to a plugin's init/start hooks.
//
// The C struct this mirrors is mysql_harness's Plugin (include/plugin.h):
// an abi_version, a brief string, a packed plugin_version, requires and
// conflicts string lists, and three optional C function pointers. Go has
// no portable equivalent of passing raw function pointers across a
// plugin.Open boundary, so the three hooks are plain Go func values: the
// plugin sets them as fields of the Descriptor its exported factory
// function returns, and the loader looks up only that one symbol.
package descriptor

import (
	"context"
	"fmt"

	"github.com/mysqlrouter/harness/internal/config"
	"github.com/mysqlrouter/harness/internal/pluginversion"
)

// ABI is the harness's compiled-in ABI version: high byte major, low byte
// minor, matching PLUGIN_ABI_VERSION's packing.
const ABI uint32 = 0x0100

// ABIMajor and ABIMinor split ABI into its two bytes.
func ABIMajor(abi uint32) uint8 { return uint8(abi >> 8) }
func ABIMinor(abi uint32) uint8 { return uint8(abi) }

// InitFunc is a plugin's module initialization hook. It receives a
// read-only snapshot of the harness and returns an error instead of the
// original's non-zero int result.
type InitFunc func(info *HarnessInfo) error

// DeinitFunc is a plugin's module deinitialization hook.
type DeinitFunc func(info *HarnessInfo) error

// StartFunc is a plugin's worker entrypoint. A plugin with a non-nil
// StartFunc is given a dedicated goroutine; ctx is the cooperative stop
// token — the plugin should poll ctx.Done() (directly or via anything
// selecting on it) and return promptly once it fires.
type StartFunc func(ctx context.Context, info *HarnessInfo) error

// Descriptor is the plugin's self-description, as recovered from its
// exported HarnessPlugin_<name> symbol.
type Descriptor struct {
	// Name is the plugin's name, taken from the configuration and the
	// shared object's filename, not from any field inside the descriptor
	// itself — the harness never trusts a plugin to name itself.
	Name string

	ABI uint32

	Brief string

	Version pluginversion.Version

	// Requires is the raw requires list, each entry either "name" or
	// "name (constraint)"; parsing happens in the Dependency Resolver,
	// not here, so a descriptor can be inspected standalone without
	// resolving whether its requirements are even syntactically valid.
	Requires []string

	Conflicts []string

	Init   InitFunc
	Deinit DeinitFunc
	Start  StartFunc
}

// CheckABI validates the descriptor's ABI against the harness's compiled-in
// ABI. A major mismatch is fatal; a plugin built against a newer, additive
// minor is accepted (forward-minor-compatible) and the caller is expected
// to log it.
func (d Descriptor) CheckABI() (newerMinor bool, err error) {
	pluginMajor, pluginMinor := ABIMajor(d.ABI), ABIMinor(d.ABI)
	harnessMajor, harnessMinor := ABIMajor(ABI), ABIMinor(ABI)

	if pluginMajor != harnessMajor {
		return false, fmt.Errorf("%w: plugin %s built for ABI %d.%d, harness is %d.%d",
			ErrIncompatibleABI, d.Name, pluginMajor, pluginMinor, harnessMajor, harnessMinor)
	}
	return pluginMinor > harnessMinor, nil
}

// HarnessInfo is the read-only view of the running harness a plugin's
// hooks receive: the program name, its directory set, and a handle to the
// configuration store. It corresponds to the C AppInfo struct, minus the
// raw Config* pointer, which is replaced by the config.Store reference
// this process actually uses.
type HarnessInfo struct {
	Program     string
	Directories config.Directories
	Config      *config.Store
}

// NewHarnessInfo builds the snapshot handed to every plugin hook.
func NewHarnessInfo(store *config.Store) *HarnessInfo {
	return &HarnessInfo{
		Program:     store.Directories().Program,
		Directories: store.Directories(),
		Config:      store,
	}
}
