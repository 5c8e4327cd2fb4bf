// Package spaces implements record schemas. A Space tells the element
// type, shape, and bounds of a single record field; a RecordSpace
// bundles named Spaces into the schema of a full record.
package spaces

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
	"gorgonia.org/tensor"
)

// Space describes a single record field: its element type, its
// per-record shape, and how to draw a random batch of values for it
type Space interface {
	Dtype() tensor.Dtype

	// Shape returns the per-record shape of the field. A scalar field
	// has an empty shape.
	Shape() []int

	// Sample draws n random records of this field, stacked along a
	// leading batch dimension
	Sample(rng *rand.Rand, n int) *tensor.Dense
}

// Float is a continuous-valued Space with all elements bounded by the
// same interval
type Float struct {
	shape  []int
	bounds r1.Interval
}

// NewFloat returns a new Float Space with the given per-record shape.
// Use an empty shape for a scalar field such as a reward.
func NewFloat(bounds r1.Interval, shape ...int) Float {
	return Float{shape: shape, bounds: bounds}
}

// Dtype implements Space
func (f Float) Dtype() tensor.Dtype {
	return tensor.Float64
}

// Shape implements Space
func (f Float) Shape() []int {
	shape := make([]int, len(f.shape))
	copy(shape, f.shape)
	return shape
}

// Bounds returns the interval bounding every element of the field
func (f Float) Bounds() r1.Interval {
	return f.bounds
}

// Sample implements Space
func (f Float) Sample(rng *rand.Rand, n int) *tensor.Dense {
	rowSize := 1
	for _, dim := range f.shape {
		rowSize *= dim
	}

	backing := make([]float64, n*rowSize)
	span := f.bounds.Max - f.bounds.Min
	for i := range backing {
		backing[i] = f.bounds.Min + span*rng.Float64()
	}

	shape := append([]int{n}, f.shape...)
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))
}

// Int is a scalar integer-valued Space over [low, high)
type Int struct {
	low, high int
}

// NewInt returns a new Int Space over [low, high)
func NewInt(low, high int) Int {
	return Int{low: low, high: high}
}

// Dtype implements Space
func (i Int) Dtype() tensor.Dtype {
	return tensor.Int
}

// Shape implements Space
func (i Int) Shape() []int {
	return []int{}
}

// Low returns the inclusive lower bound of the field
func (i Int) Low() int {
	return i.low
}

// High returns the exclusive upper bound of the field
func (i Int) High() int {
	return i.high
}

// Sample implements Space
func (i Int) Sample(rng *rand.Rand, n int) *tensor.Dense {
	backing := make([]int, n)
	for j := range backing {
		backing[j] = i.low + rng.Intn(i.high-i.low)
	}
	return tensor.New(tensor.WithShape(n), tensor.WithBacking(backing))
}

// Bool is a scalar boolean-valued Space, used for terminal flags
type Bool struct{}

// NewBool returns a new Bool Space
func NewBool() Bool {
	return Bool{}
}

// Dtype implements Space
func (b Bool) Dtype() tensor.Dtype {
	return tensor.Bool
}

// Shape implements Space
func (b Bool) Shape() []int {
	return []int{}
}

// Sample implements Space
func (b Bool) Sample(rng *rand.Rand, n int) *tensor.Dense {
	backing := make([]bool, n)
	for i := range backing {
		backing[i] = rng.Intn(2) == 1
	}
	return tensor.New(tensor.WithShape(n), tensor.WithBacking(backing))
}
