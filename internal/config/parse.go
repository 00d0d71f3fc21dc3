package config

import (
	"fmt"
	"strings"

	"github.com/go-ini/ini"
)

// LoadFile parses an INI-like configuration file (spec §6: case-insensitive
// "[name]" or "[name:key]" headers, "option = value" lines, "#" comments,
// blank lines ignored) into a Store rooted at dirs.
//
// go-ini has no notion of the harness's "[name:key]" sub-keying, so the
// split on the first ':' in the raw section name is done here; everything
// else (comment stripping, continuation handling, duplicate detection
// within a single raw section) is delegated to the library.
func LoadFile(path string, dirs Directories) (*Store, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: false,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return fromFile(f, dirs)
}

// ParseBytes is LoadFile's in-memory counterpart, used by tests and by
// embedders that already hold the configuration text.
func ParseBytes(data []byte, dirs Directories) (*Store, error) {
	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true, AllowBooleanKeys: true}, data)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return fromFile(f, dirs)
}

func fromFile(f *ini.File, dirs Directories) (*Store, error) {
	store := New(dirs)

	for _, raw := range f.Sections() {
		// go-ini always yields an implicit "DEFAULT" section for bare
		// key/value pairs that precede any header; the harness has no use
		// for it unless it actually carries options.
		if raw.Name() == ini.DefaultSection && len(raw.Keys()) == 0 {
			continue
		}

		name, key := splitSectionHeader(raw.Name())

		sec, err := store.AddSection(name, key)
		if err != nil {
			return nil, err
		}
		for _, k := range raw.Keys() {
			sec.Set(k.Name(), k.Value())
		}
	}

	return store, nil
}

// splitSectionHeader turns "name:key" into ("name", "key"), and "name" into
// ("name", "").
func splitSectionHeader(header string) (name, key string) {
	if i := strings.IndexByte(header, ':'); i >= 0 {
		return header[:i], header[i+1:]
	}
	return header, ""
}
