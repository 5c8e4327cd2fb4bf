package graph

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// order records node completion order under a lock
type order struct {
	mu   sync.Mutex
	seen []string
}

func (o *order) mark(name string) func() error {
	return func() error {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.seen = append(o.seen, name)
		return nil
	}
}

func (o *order) before(t *testing.T, first, second string) {
	t.Helper()

	firstAt, secondAt := -1, -1
	for i, name := range o.seen {
		if name == first {
			firstAt = i
		}
		if name == second {
			secondAt = i
		}
	}
	require.NotEqual(t, -1, firstAt)
	require.NotEqual(t, -1, secondAt)
	assert.Less(t, firstAt, secondAt)
}

func TestRunRespectsDependencies(t *testing.T) {
	o := &order{}
	g := New()

	read := g.Node("read", o.mark("read"))
	writeA := g.Node("write-a", o.mark("write-a"), read)
	writeB := g.Node("write-b", o.mark("write-b"), read)
	barrier := g.Barrier("written", writeA, writeB)
	g.Node("commit", o.mark("commit"), barrier)

	require.NoError(t, g.Run(context.Background()))
	require.Len(t, o.seen, 4)

	o.before(t, "read", "write-a")
	o.before(t, "read", "write-b")
	o.before(t, "write-a", "commit")
	o.before(t, "write-b", "commit")
}

func TestRunIndependentNodes(t *testing.T) {
	o := &order{}
	g := New()

	for _, name := range []string{"a", "b", "c", "d"} {
		g.Node(name, o.mark(name))
	}

	require.NoError(t, g.Run(context.Background()))
	assert.Len(t, o.seen, 4)
}

func TestRunPropagatesError(t *testing.T) {
	o := &order{}
	g := New()

	boom := g.Node("boom", func() error {
		return errors.New("scatter failed")
	})
	g.Node("after", o.mark("after"), boom)

	err := g.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scatter failed")

	// Dependents of a failed node never run
	assert.Empty(t, o.seen)
}

func TestRunRejectsCycle(t *testing.T) {
	g := New()

	a := g.Node("a", nil)
	b := g.Node("b", nil, a)
	a.deps = append(a.deps, b)

	err := g.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestRunRejectsForeignDependency(t *testing.T) {
	other := New()
	foreign := other.Node("foreign", nil)

	g := New()
	g.Node("local", nil, foreign)

	err := g.Run(context.Background())
	require.Error(t, err)
}

func TestRunEmptyGraph(t *testing.T) {
	require.NoError(t, New().Run(context.Background()))
}

func TestRunCancelledContext(t *testing.T) {
	o := &order{}
	g := New()
	g.Node("never", o.mark("never"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Run(ctx)
	require.Error(t, err)
	assert.Empty(t, o.seen)
}

func TestBarrierObservesAllEffects(t *testing.T) {
	g := New()

	var mu sync.Mutex
	committed := make(map[int]bool)

	writes := make([]*Node, 8)
	for i := 0; i < 8; i++ {
		i := i
		writes[i] = g.Node("write", func() error {
			mu.Lock()
			defer mu.Unlock()
			committed[i] = true
			return nil
		})
	}
	barrier := g.Barrier("written", writes...)

	var observed int
	g.Node("read", func() error {
		mu.Lock()
		defer mu.Unlock()
		observed = len(committed)
		return nil
	}, barrier)

	require.NoError(t, g.Run(context.Background()))
	assert.Equal(t, 8, observed)
}
