// Package graph implements a small dataflow scheduler. Operations are
// nodes in an explicit dependency graph; a node runs only once all of
// its declared predecessors have completed, never in program order.
// Independent nodes may run concurrently.
//
// The package exists to give memory components a control-dependency
// primitive: a Barrier node completes exactly when every operation
// behind it has committed, and anything depending on the barrier is
// guaranteed to observe those effects.
package graph

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Node is a single schedulable operation. A nil op is a pure
// synchronization point.
type Node struct {
	name string
	op   func() error
	deps []*Node
	done chan struct{}
}

// Name returns the node's name
func (n *Node) Name() string {
	return n.name
}

// Graph is a set of nodes with dependency edges. A Graph is built once
// and run once; Run must not be called twice.
type Graph struct {
	log   zerolog.Logger
	nodes []*Node
}

// New returns a new empty Graph that does not log
func New() *Graph {
	return NewWithLogger(zerolog.Nop())
}

// NewWithLogger returns a new empty Graph that traces node execution
// through the given logger
func NewWithLogger(log zerolog.Logger) *Graph {
	return &Graph{log: log}
}

// Node registers an operation that runs only after every node in deps
// has completed
func (g *Graph) Node(name string, op func() error, deps ...*Node) *Node {
	node := &Node{
		name: name,
		op:   op,
		deps: deps,
		done: make(chan struct{}),
	}
	g.nodes = append(g.nodes, node)
	return node
}

// Barrier registers a no-op node depending on all of deps. It is the
// completion token for the operations behind it: any node depending on
// the barrier observes all of their effects.
func (g *Graph) Barrier(name string, deps ...*Node) *Node {
	return g.Node(name, nil, deps...)
}

// validate rejects graphs with edges to foreign nodes or with cycles,
// which would otherwise deadlock Run
func (g *Graph) validate() error {
	indegree := make(map[*Node]int, len(g.nodes))
	members := make(map[*Node]struct{}, len(g.nodes))
	for _, node := range g.nodes {
		members[node] = struct{}{}
	}

	for _, node := range g.nodes {
		for _, dep := range node.deps {
			if _, ok := members[dep]; !ok {
				return errors.Errorf("node %v depends on %v, which is "+
					"not part of this graph", node.name, dep.name)
			}
			indegree[node]++
		}
	}

	ready := make([]*Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		if indegree[node] == 0 {
			ready = append(ready, node)
		}
	}

	visited := 0
	for len(ready) > 0 {
		current := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		visited++

		for _, node := range g.nodes {
			for _, dep := range node.deps {
				if dep == current {
					indegree[node]--
					if indegree[node] == 0 {
						ready = append(ready, node)
					}
				}
			}
		}
	}

	if visited != len(g.nodes) {
		return errors.New("dependency cycle")
	}
	return nil
}

// Run executes every node in the graph, respecting dependency edges.
// The first node error cancels all not-yet-started nodes and is
// returned. Nodes with no path between them may run concurrently.
func (g *Graph) Run(ctx context.Context) error {
	if err := g.validate(); err != nil {
		return errors.Wrap(err, "run")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(g.nodes))

	for _, node := range g.nodes {
		wg.Add(1)
		go func(n *Node) {
			defer wg.Done()

			for _, dep := range n.deps {
				select {
				case <-dep.done:
				case <-ctx.Done():
					return
				}
			}
			if ctx.Err() != nil {
				return
			}

			g.log.Trace().Str("node", n.name).Msg("running node")
			if n.op != nil {
				if err := n.op(); err != nil {
					errs <- errors.Wrap(err, n.name)
					cancel()
					return
				}
			}
			close(n.done)
		}(node)
	}

	wg.Wait()

	select {
	case err := <-errs:
		return err
	default:
	}
	return ctx.Err()
}
