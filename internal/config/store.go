// Package config implements the harness's Configuration Store: an
// insertion-ordered collection of (name, key) sections, each an
// insertion-ordered map of option to string value, plus the fixed set of
// process-wide directories every plugin is handed at init time.
//
// Parsing is delegated to github.com/go-ini/ini rather than hand-rolled
// with a tokenizer; only the (name, key) section-splitting and the
// default-section fallback are the harness's own.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Errors in the Configuration domain, per the harness error taxonomy.
var (
	ErrBadOption        = errors.New("bad option")
	ErrDuplicateSection = errors.New("duplicate section")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrMissingRequired  = errors.New("missing required option")
)

// Directories holds the four process-wide directory paths every plugin
// receives via HarnessInfo, plus the program name.
type Directories struct {
	Program   string
	ExtensionDir string
	LogDir    string
	RunDir    string
	ConfigDir string
}

// DefaultDirectories returns the Unix-hierarchy defaults from spec §6,
// rooted under the given program name.
func DefaultDirectories(program string) Directories {
	return Directories{
		Program:      program,
		ExtensionDir: "lib/" + program,
		LogDir:       "log/" + program,
		RunDir:       "run/" + program,
		ConfigDir:    "etc/" + program,
	}
}

// Store is the harness's Configuration Store.
type Store struct {
	dirs     Directories
	sections []*Section
	byName   map[string][]*Section
}

// New creates an empty Store with the given directory set.
func New(dirs Directories) *Store {
	return &Store{
		dirs:   dirs,
		byName: map[string][]*Section{},
	}
}

// Directories returns the store's directory set.
func (s *Store) Directories() Directories { return s.dirs }

// AddSection appends a new section (name, key) and returns it. Fails with
// ErrDuplicateSection when that pair already exists.
func (s *Store) AddSection(name, key string) (*Section, error) {
	for _, existing := range s.byName[name] {
		if existing.Key == key {
			return nil, fmt.Errorf("%w: [%s:%s]", ErrDuplicateSection, name, key)
		}
	}
	sec := &Section{Name: name, Key: key, store: s, values: map[string]string{}, order: nil}
	s.sections = append(s.sections, sec)
	s.byName[name] = append(s.byName[name], sec)
	return sec, nil
}

// Get returns every section registered under name, in insertion order.
func (s *Store) Get(name string) []*Section {
	return append([]*Section(nil), s.byName[name]...)
}

// Sections returns every section in the store, in insertion (file) order.
func (s *Store) Sections() []*Section {
	return append([]*Section(nil), s.sections...)
}

// String renders every section and option the store holds, in file order,
// for diagnostic output rather than for round-tripping back through
// LoadFile.
func (s *Store) String() string {
	var b strings.Builder
	for _, sec := range s.sections {
		fmt.Fprintf(&b, "[%s]\n", sectionLabel(sec))
		for _, opt := range sec.Options() {
			v, _ := sec.Get(opt)
			fmt.Fprintf(&b, "  %s = %s\n", opt, v)
		}
	}
	return b.String()
}

// defaultSection returns the unkeyed (name, "") section for name, or nil.
func (s *Store) defaultSection(name string) *Section {
	for _, sec := range s.byName[name] {
		if sec.Key == "" {
			return sec
		}
	}
	return nil
}
