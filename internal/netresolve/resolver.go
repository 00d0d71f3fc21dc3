// Package netresolve implements the harness's Name Resolver: hostname and
// TCP service-name/port lookups backed by a small positive cache, so a
// routing plugin's hot path never pays for a fresh DNS round trip on every
// connection attempt.
//
// The cache is hashicorp/golang-lru's fixed-capacity LRU, the same
// bounded-cache library the rest of the example pack reaches for rather
// than a hand-rolled map-plus-eviction scheme.
package netresolve

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrInvalidArgument is returned when a hostname fails to resolve or a
// service name is unknown.
var ErrInvalidArgument = errors.New("invalid argument")

const defaultCacheSize = 1024

// Resolver wraps net's lookup functions with a bounded positive cache. Its
// zero value is not usable; construct one with New.
type Resolver struct {
	hosts    *lru.Cache[string, []net.IP]
	services *lru.Cache[string, uint16]
	ports    *lru.Cache[uint16, string]
	lookup   func(string) ([]net.IP, error)
}

// New creates a Resolver with a cache of the given capacity for each of
// its three lookup kinds. A non-positive size falls back to
// defaultCacheSize.
func New(size int) (*Resolver, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	hosts, err := lru.New[string, []net.IP](size)
	if err != nil {
		return nil, err
	}
	services, err := lru.New[string, uint16](size)
	if err != nil {
		return nil, err
	}
	ports, err := lru.New[uint16, string](size)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		hosts:    hosts,
		services: services,
		ports:    ports,
		lookup:   net.LookupIP,
	}, nil
}

// Hostname resolves name to its set of IP addresses, in whatever order the
// underlying resolver returns them (IPv4 and IPv6 results may be
// interleaved). Cache hits are semantically identical to fresh lookups.
func (r *Resolver) Hostname(name string) ([]net.IP, error) {
	if ips, ok := r.hosts.Get(name); ok {
		return ips, nil
	}
	ips, err := r.lookup(name)
	if err != nil || len(ips) == 0 {
		return nil, fmt.Errorf("%w: cannot resolve host %q: %v", ErrInvalidArgument, name, err)
	}
	r.hosts.Add(name, ips)
	return ips, nil
}

// TCPServiceName resolves a service name (e.g. "mysql") to its well-known
// TCP port.
func (r *Resolver) TCPServiceName(name string) (uint16, error) {
	if port, ok := r.services.Get(name); ok {
		return port, nil
	}
	port, err := net.LookupPort("tcp", name)
	if err != nil {
		return 0, fmt.Errorf("%w: unknown TCP service %q: %v", ErrInvalidArgument, name, err)
	}
	p := uint16(port)
	r.services.Add(name, p)
	return p, nil
}

// TCPServicePort reverses TCPServiceName: given a port, returns its
// well-known service name, or the decimal port as a string when no
// service is registered for it.
func (r *Resolver) TCPServicePort(port uint16) string {
	if name, ok := r.ports.Get(port); ok {
		return name
	}
	name := lookupServiceByPort(port)
	if name == "" {
		name = strconv.Itoa(int(port))
	}
	r.ports.Add(port, name)
	return name
}

// wellKnownTCPPorts covers the services this harness's own components
// care about; /etc/services-style exhaustive lookup has no portable
// standard-library equivalent, so only the names this domain actually
// round-trips on are seeded here.
var wellKnownTCPPorts = map[uint16]string{
	3306:  "mysql",
	33060: "mysqlx",
	80:    "http",
	443:   "https",
}

func lookupServiceByPort(port uint16) string {
	return wellKnownTCPPorts[port]
}
