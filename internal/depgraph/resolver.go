// Package depgraph implements the harness's Dependency Resolver: conflict
// checking, requires-version checking, and a deterministic topological
// sort over the set of plugins a configuration requested.
//
// The traversal shape (visited/visiting marks, a DFS over each plugin's
// dependencies whose postorder is itself the topological order, and an
// explicit path slice used to report the offending cycle) is grounded on a graph-walking style the harness's own
// code pool used for generic DAG work before that helper was trimmed down
// to this package's narrower, plugin-specific needs.
package depgraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mysqlrouter/harness/internal/descriptor"
	"github.com/mysqlrouter/harness/internal/pluginversion"
)

// Errors the resolver can fail with.
var (
	ErrMissingDependency   = errors.New("missing dependency")
	ErrVersionUnsatisfied  = errors.New("version unsatisfied")
	ErrConflictDeclared    = errors.New("conflict declared")
	ErrCycleDetected       = errors.New("dependency cycle detected")
	ErrBadConstraintSyntax = pluginversion.ErrBadConstraintSyntax
)

// CycleError names every plugin on a detected dependency cycle, in the
// order the cycle was walked.
type CycleError struct {
	Plugins []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: cycle through %v", ErrCycleDetected, e.Plugins)
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// node is one plugin's resolver-local bookkeeping.
type node struct {
	desc  descriptor.Descriptor
	index int // position in the configuration, used to break topological-sort ties
	state int // 0 unvisited, 1 visiting, 2 done
}

const (
	unvisited = 0
	visiting  = 1
	done      = 2
)

// Resolve checks every conflict and requires entry across descs (which
// must be in the order plugins appeared in the configuration) and returns
// the initialization order: for every edge dependency -> dependent in the
// graph, the dependency precedes the dependent. The reverse of the
// returned slice is the teardown order.
func Resolve(descs []descriptor.Descriptor) ([]string, error) {
	byName := make(map[string]*node, len(descs))
	for i, d := range descs {
		byName[d.Name] = &node{desc: d, index: i}
	}

	if err := checkConflicts(byName); err != nil {
		return nil, err
	}

	edges, err := buildEdges(byName)
	if err != nil {
		return nil, err
	}

	return topoSort(descs, byName, edges)
}

func checkConflicts(byName map[string]*node) error {
	names := sortedNames(byName)
	for _, name := range names {
		n := byName[name]
		for _, conflict := range n.desc.Conflicts {
			if _, present := byName[conflict]; present {
				return fmt.Errorf("%w: %s conflicts with %s", ErrConflictDeclared, name, conflict)
			}
		}
	}
	return nil
}

// buildEdges returns, for each plugin, the names of the plugins it depends
// on (edges run dependency -> dependent, so a plugin's own requires list
// gives the edges pointing into it).
func buildEdges(byName map[string]*node) (map[string][]string, error) {
	dependsOn := make(map[string][]string, len(byName))

	names := sortedNames(byName)
	for _, name := range names {
		n := byName[name]
		for _, entry := range n.desc.Requires {
			req, err := pluginversion.ParseRequirement(entry)
			if err != nil {
				return nil, err
			}

			dep, present := byName[req.Name]
			if !present {
				return nil, fmt.Errorf("%w: %s requires %s", ErrMissingDependency, name, req.Name)
			}
			if err := req.Constraint.Check(dep.desc.Version); err != nil {
				return nil, fmt.Errorf("%w: %s requires %s %s, found %s",
					ErrVersionUnsatisfied, name, req.Name, req.Constraint, dep.desc.Version)
			}

			dependsOn[name] = append(dependsOn[name], req.Name)
		}
	}
	return dependsOn, nil
}

// topoSort runs a DFS-based topological sort, visiting plugins in
// configuration order and, within each plugin's dependency list, in the
// order those dependencies were declared — giving a deterministic order
// whenever the graph itself admits more than one valid ordering.
func topoSort(descs []descriptor.Descriptor, byName map[string]*node, dependsOn map[string][]string) ([]string, error) {
	var order []string
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		n := byName[name]
		switch n.state {
		case done:
			return nil
		case visiting:
			start := 0
			for i, p := range path {
				if p == name {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), path[start:]...), name)
			return &CycleError{Plugins: cycle}
		}

		n.state = visiting
		path = append(path, name)

		for _, dep := range dependsOn[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		n.state = done
		order = append(order, name)
		return nil
	}

	for _, d := range descs {
		if err := visit(d.Name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func sortedNames(byName map[string]*node) []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return byName[names[i]].index < byName[names[j]].index })
	return names
}
