package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestNewBatch(t *testing.T) {
	b, err := NewBatch(map[string]*tensor.Dense{
		"value": tensor.New(tensor.WithShape(3),
			tensor.WithBacking([]int{1, 2, 3})),
		"state": tensor.New(tensor.WithShape(3, 2),
			tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6})),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []string{"state", "value"}, b.Keys())

	values, err := b.Ints("value")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
}

func TestNewBatchUnevenLengths(t *testing.T) {
	_, err := NewBatch(map[string]*tensor.Dense{
		"value": tensor.New(tensor.WithShape(3),
			tensor.WithBacking([]int{1, 2, 3})),
		"terminal": tensor.New(tensor.WithShape(2),
			tensor.WithBacking([]bool{false, true})),
	})
	assert.Error(t, err)

	_, err = NewBatch(map[string]*tensor.Dense{"value": nil})
	assert.Error(t, err)
}

func TestEmpty(t *testing.T) {
	b := Empty()
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Keys())

	_, ok := b.Field("value")
	assert.False(t, ok)
}

func TestFieldAccessors(t *testing.T) {
	b, err := NewBatch(map[string]*tensor.Dense{
		"reward": tensor.New(tensor.WithShape(2),
			tensor.WithBacking([]float64{0.5, -1})),
		"terminal": tensor.New(tensor.WithShape(2),
			tensor.WithBacking([]bool{false, true})),
	})
	require.NoError(t, err)

	rewards, err := b.Floats("reward")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -1}, rewards)

	terminals, err := b.Terminals()
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, terminals)

	// Wrong dtype and missing field
	_, err = b.Ints("reward")
	assert.Error(t, err)
	_, err = b.Floats("nope")
	assert.Error(t, err)
}

func TestSlice(t *testing.T) {
	b, err := NewBatch(map[string]*tensor.Dense{
		"value": tensor.New(tensor.WithShape(4),
			tensor.WithBacking([]int{1, 2, 3, 4})),
		"state": tensor.New(tensor.WithShape(4, 2),
			tensor.WithBacking([]float64{1, 1, 2, 2, 3, 3, 4, 4})),
	})
	require.NoError(t, err)

	tail, err := b.Slice(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, tail.Len())

	values, err := tail.Ints("value")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, values)

	states, err := tail.Floats("state")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 4, 4}, states)

	// The slice copies its data
	values[0] = 99
	original, err := b.Ints("value")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, original)

	empty, err := b.Slice(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = b.Slice(-1, 2)
	assert.Error(t, err)
	_, err = b.Slice(2, 5)
	assert.Error(t, err)
}
