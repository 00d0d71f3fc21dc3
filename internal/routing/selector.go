// Package routing implements the harness's Routing Destination Selector:
// a deterministic first-available failover policy over a fixed list of
// (host, port) destinations.
package routing

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// ErrNoDestinations is returned when the destination list is empty.
var ErrNoDestinations = errors.New("no destinations configured")

// Destination is one (host, port) routing target.
type Destination struct {
	Host string
	Port uint16
}

func (d Destination) String() string { return fmt.Sprintf("%s:%d", d.Host, d.Port) }

// Dialer is the subset of *net.Dialer the selector needs, kept as an
// interface so tests can substitute a fake that succeeds or fails on
// command without opening real sockets.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Selector holds an immutable, ordered destination list plus a
// monotonically-stored current_pos. It is safe for concurrent use; the
// mutex is held only across the current_pos update, never across the
// dial itself.
type Selector struct {
	destinations []Destination
	dialer       Dialer

	mu         sync.Mutex
	currentPos int
}

// New creates a Selector over destinations (copied; the caller's slice may
// be reused) using dialer to attempt connections.
func New(destinations []Destination, dialer Dialer) *Selector {
	return &Selector{
		destinations: append([]Destination(nil), destinations...),
		dialer:       dialer,
	}
}

// Connect attempts destinations starting at current_pos and continuing to
// the end of the list; entries before current_pos are not tried. On the first successful connect it advances
// current_pos to that destination's index (if it advanced) and returns the
// connection. If every remaining destination fails, current_pos resets to
// 0 so the next call retries the head of the list, and ErrNoDestinations
// wraps the last dial error encountered.
func (s *Selector) Connect(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	s.mu.Lock()
	start := s.currentPos
	dests := s.destinations
	s.mu.Unlock()

	if len(dests) == 0 {
		return nil, ErrNoDestinations
	}

	var lastErr error
	for i := start; i < len(dests); i++ {
		conn, err := s.dial(ctx, dests[i], timeout)
		if err == nil {
			s.mu.Lock()
			if i > s.currentPos {
				s.currentPos = i
			}
			s.mu.Unlock()
			return conn, nil
		}
		lastErr = err
	}

	s.mu.Lock()
	s.currentPos = 0
	s.mu.Unlock()

	return nil, fmt.Errorf("%w: all destinations from position %d failed, last error: %v", ErrNoDestinations, start, lastErr)
}

func (s *Selector) dial(ctx context.Context, dest Destination, timeout time.Duration) (net.Conn, error) {
	dialCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.dialer.DialContext(dialCtx, "tcp", dest.String())
}

// CurrentPos reports the selector's current index, for tests and status
// reporting.
func (s *Selector) CurrentPos() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPos
}
