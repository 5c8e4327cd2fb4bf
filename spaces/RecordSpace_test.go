package spaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
	"gorgonia.org/tensor"

	"github.com/graphrl/graphrl/record"
)

func transitionSpace(t *testing.T) *RecordSpace {
	t.Helper()

	space, err := NewRecordSpace(map[string]Space{
		"state":  NewFloat(r1.Interval{Min: -1, Max: 1}, 4),
		"action": NewInt(0, 3),
		"reward": NewFloat(r1.Interval{Min: -100, Max: 100}),
		Terminal: NewBool(),
	})
	require.NoError(t, err)
	return space
}

func TestNewRecordSpace(t *testing.T) {
	space := transitionSpace(t)

	assert.Equal(t, []string{"action", "reward", "state", "terminal"},
		space.Keys())
	assert.True(t, space.HasTerminal())
	assert.False(t, space.HasBatchRank())
	assert.True(t, space.WithBatchRank().HasBatchRank())

	_, err := NewRecordSpace(nil)
	assert.Error(t, err)

	_, err = NewRecordSpace(map[string]Space{"state": nil})
	assert.Error(t, err)
}

func TestHasTerminalRequiresBool(t *testing.T) {
	space, err := NewRecordSpace(map[string]Space{
		Terminal: NewInt(0, 2),
	})
	require.NoError(t, err)
	assert.False(t, space.HasTerminal())
}

func TestSampleShapes(t *testing.T) {
	space := transitionSpace(t)
	rng := rand.New(rand.NewSource(42))

	b, err := space.Sample(rng, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, b.Len())

	state, ok := b.Field("state")
	require.True(t, ok)
	assert.Equal(t, []int{6, 4}, []int(state.Shape()))
	assert.Equal(t, tensor.Float64, state.Dtype())

	states, err := b.Floats("state")
	require.NoError(t, err)
	for _, s := range states {
		assert.GreaterOrEqual(t, s, -1.0)
		assert.Less(t, s, 1.0)
	}

	actions, err := b.Ints("action")
	require.NoError(t, err)
	for _, a := range actions {
		assert.GreaterOrEqual(t, a, 0)
		assert.Less(t, a, 3)
	}

	// A sampled batch always validates against its own space
	assert.NoError(t, space.Validate(b))

	_, err = space.Sample(rng, 0)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	space := transitionSpace(t)
	rng := rand.New(rand.NewSource(42))

	assert.Error(t, space.Validate(nil))

	assert.Error(t, space.Validate(record.Empty()))

	// Missing field
	good, err := space.Sample(rng, 2)
	require.NoError(t, err)
	fields := make(map[string]*tensor.Dense)
	for _, key := range []string{"state", "action", "reward"} {
		field, _ := good.Field(key)
		fields[key] = field
	}
	missing, err := record.NewBatch(fields)
	require.NoError(t, err)
	assert.Error(t, space.Validate(missing))

	// Undeclared field
	fields = make(map[string]*tensor.Dense)
	for _, key := range good.Keys() {
		field, _ := good.Field(key)
		fields[key] = field
	}
	fields["bonus"] = tensor.New(tensor.WithShape(2),
		tensor.WithBacking([]float64{0, 0}))
	extra, err := record.NewBatch(fields)
	require.NoError(t, err)
	assert.Error(t, space.Validate(extra))

	// Wrong dtype
	fields = make(map[string]*tensor.Dense)
	for _, key := range good.Keys() {
		field, _ := good.Field(key)
		fields[key] = field
	}
	fields["action"] = tensor.New(tensor.WithShape(2),
		tensor.WithBacking([]float64{0, 1}))
	wrongType, err := record.NewBatch(fields)
	require.NoError(t, err)
	assert.Error(t, space.Validate(wrongType))

	// Wrong per-record shape
	fields = make(map[string]*tensor.Dense)
	for _, key := range good.Keys() {
		field, _ := good.Field(key)
		fields[key] = field
	}
	fields["state"] = tensor.New(tensor.WithShape(2, 3),
		tensor.WithBacking(make([]float64, 6)))
	wrongShape, err := record.NewBatch(fields)
	require.NoError(t, err)
	assert.Error(t, space.Validate(wrongShape))
}
