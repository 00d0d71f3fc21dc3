// Package pluginloader implements the harness's Plugin Loader: resolving a
// configured plugin name to a shared object on disk, opening it, pulling
// out its exported descriptor symbol, and validating the descriptor's ABI
// before the harness will touch it.
//
// Go's plugin package is the closest stdlib equivalent to dlopen/dlsym;
// unlike dlopen it has no flag to suppress symbol bleed between shared
// objects the way RTLD_LOCAL does, so the "flag set that prevents symbol
// bleed" requirement is satisfied implicitly — plugin.Open never merges
// the opened object's exported symbols into the caller's symbol table the
// way a C dlopen(..., RTLD_GLOBAL) would.
package pluginloader

import (
	"errors"
	"fmt"
	"plugin"
	"runtime"
	"strings"

	"github.com/mysqlrouter/harness/internal/descriptor"
)

// Errors the Loader can fail with, per the loader's failure taxonomy.
var (
	ErrLibraryNotFound = errors.New("plugin library not found")
	ErrSymbolNotFound  = errors.New("plugin symbol not found")
	ErrBadDescriptor   = descriptor.ErrBadDescriptor
	ErrIncompatibleAbi = descriptor.ErrIncompatibleABI
)

// platformExt is the shared-library extension the loader appends to a
// plugin name when locating it under the extension directory. Go's
// plugin package only supports buildmode=plugin on ELF/Mach-O platforms;
// Windows is not a target.
func platformExt() string {
	if runtime.GOOS == "darwin" {
		return ".so" // buildmode=plugin artifacts are still named .so by convention here
	}
	return ".so"
}

// SymbolFor derives the exported symbol name the loader looks up inside a
// plugin's shared object, given the plugin's configured name: a fixed
// "HarnessPlugin_<name>" prefix, capitalized to form a valid exported Go
// identifier.
func SymbolFor(name string) string {
	return "HarnessPlugin_" + name
}

// Loader opens plugin shared objects from a fixed extension directory.
type Loader struct {
	extensionDir string
}

// New creates a Loader rooted at extensionDir (HarnessInfo.Directories.ExtensionDir).
func New(extensionDir string) *Loader {
	return &Loader{extensionDir: extensionDir}
}

// Load resolves name to "<extension_dir>/<name><platform_lib_ext>", opens
// it, and reads its descriptor symbol. The returned Descriptor's ABI has
// already been checked against the harness's compiled-in ABI; newerMinor
// reports whether the plugin was built against a newer, still-compatible
// minor version, for the caller to log.
func (l *Loader) Load(name string) (desc descriptor.Descriptor, newerMinor bool, err error) {
	path := l.extensionDir + "/" + strings.TrimSuffix(name, platformExt()) + platformExt()
	return LoadPath(path, name)
}

// LoadPath opens the shared object at path directly, without consulting
// any extension directory, and reads the descriptor exported under name's
// symbol. Load is the harness's own entry point, built on top of this;
// the plugininfo diagnostic tool uses LoadPath directly since it is handed
// an arbitrary file path on the command line rather than a configured
// plugin name.
func LoadPath(path, name string) (desc descriptor.Descriptor, newerMinor bool, err error) {
	lib, err := plugin.Open(path)
	if err != nil {
		return descriptor.Descriptor{}, false, fmt.Errorf("%w: %s: %v", ErrLibraryNotFound, path, err)
	}

	symName := SymbolFor(name)
	sym, err := lib.Lookup(symName)
	if err != nil {
		return descriptor.Descriptor{}, false, fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, symName, path)
	}

	factory, ok := sym.(func() descriptor.Descriptor)
	if !ok {
		return descriptor.Descriptor{}, false, fmt.Errorf("%w: %s in %s has the wrong type", ErrBadDescriptor, symName, path)
	}

	desc = factory()
	desc.Name = name
	if desc.ABI == 0 {
		return descriptor.Descriptor{}, false, fmt.Errorf("%w: %s: empty descriptor", ErrBadDescriptor, path)
	}

	newerMinor, err = desc.CheckABI()
	if err != nil {
		return descriptor.Descriptor{}, false, err
	}

	return desc, newerMinor, nil
}
