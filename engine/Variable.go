package engine

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Variable is a named persistent tensor cell addressable by row. Rows
// are indexed along the leading dimension; a gather or scatter touches
// whole rows at a time, which is how record fields are stored (one row
// per circular position).
//
// A Variable performs no internal locking. Callers serialize writes
// against reads themselves.
type Variable struct {
	name    string
	dt      tensor.Dtype
	rows    int
	rowSize int
	shape   []int
	data    *tensor.Dense
}

// Name returns the cell's unique name
func (v *Variable) Name() string {
	return v.name
}

// Dtype returns the element type of the cell
func (v *Variable) Dtype() tensor.Dtype {
	return v.dt
}

// Rows returns the number of addressable rows
func (v *Variable) Rows() int {
	return v.rows
}

func (v *Variable) checkIndices(op string, indices []int) error {
	for _, index := range indices {
		if index < 0 || index >= v.rows {
			return errors.Errorf("%v: index %v out of range [0, %v) for "+
				"variable %v", op, index, v.rows, v.name)
		}
	}
	return nil
}

// outShape returns the shape of a gathered batch of n rows
func (v *Variable) outShape(n int) []int {
	shape := make([]int, len(v.shape))
	copy(shape, v.shape)
	shape[0] = n
	return shape
}

// Gather reads the rows at the given indices, preserving index order.
// Indices may repeat and may address any row in any order. The result
// copies its data and shares nothing with the cell.
func (v *Variable) Gather(indices []int) (*tensor.Dense, error) {
	if err := v.checkIndices("gather", indices); err != nil {
		return nil, err
	}

	shape := v.outShape(len(indices))
	switch data := v.data.Data().(type) {
	case []float64:
		backing := make([]float64, len(indices)*v.rowSize)
		for i, index := range indices {
			copy(backing[i*v.rowSize:(i+1)*v.rowSize],
				data[index*v.rowSize:(index+1)*v.rowSize])
		}
		return tensor.New(tensor.WithShape(shape...),
			tensor.WithBacking(backing)), nil

	case []int:
		backing := make([]int, len(indices)*v.rowSize)
		for i, index := range indices {
			copy(backing[i*v.rowSize:(i+1)*v.rowSize],
				data[index*v.rowSize:(index+1)*v.rowSize])
		}
		return tensor.New(tensor.WithShape(shape...),
			tensor.WithBacking(backing)), nil

	case []bool:
		backing := make([]bool, len(indices)*v.rowSize)
		for i, index := range indices {
			copy(backing[i*v.rowSize:(i+1)*v.rowSize],
				data[index*v.rowSize:(index+1)*v.rowSize])
		}
		return tensor.New(tensor.WithShape(shape...),
			tensor.WithBacking(backing)), nil
	}

	return nil, errors.Errorf("gather: variable %v holds unsupported "+
		"dtype %v", v.name, v.dt)
}

// Read returns a copy of the full cell contents
func (v *Variable) Read() (*tensor.Dense, error) {
	indices := make([]int, v.rows)
	for i := range indices {
		indices[i] = i
	}
	return v.Gather(indices)
}

// ScatterUpdate writes values row-by-row at the given indices. Row i of
// values lands at row indices[i]. Repeated indices apply in order, so
// the last write to a row wins.
func (v *Variable) ScatterUpdate(indices []int, values *tensor.Dense) error {
	if err := v.checkIndices("scatter update", indices); err != nil {
		return err
	}
	if values.Dtype() != v.dt {
		return errors.Errorf("scatter update: variable %v holds %v, "+
			"got %v", v.name, v.dt, values.Dtype())
	}
	if values.Shape().TotalSize() != len(indices)*v.rowSize {
		return errors.Errorf("scatter update: variable %v needs %v rows "+
			"of %v elements, got shape %v", v.name, len(indices),
			v.rowSize, values.Shape())
	}

	switch data := v.data.Data().(type) {
	case []float64:
		updates := values.Data().([]float64)
		for i, index := range indices {
			copy(data[index*v.rowSize:(index+1)*v.rowSize],
				updates[i*v.rowSize:(i+1)*v.rowSize])
		}
		return nil

	case []int:
		updates := values.Data().([]int)
		for i, index := range indices {
			copy(data[index*v.rowSize:(index+1)*v.rowSize],
				updates[i*v.rowSize:(i+1)*v.rowSize])
		}
		return nil

	case []bool:
		updates := values.Data().([]bool)
		for i, index := range indices {
			copy(data[index*v.rowSize:(index+1)*v.rowSize],
				updates[i*v.rowSize:(i+1)*v.rowSize])
		}
		return nil
	}

	return errors.Errorf("scatter update: variable %v holds unsupported "+
		"dtype %v", v.name, v.dt)
}

// Assign overwrites the full cell contents
func (v *Variable) Assign(values *tensor.Dense) error {
	indices := make([]int, v.rows)
	for i := range indices {
		indices[i] = i
	}
	return v.ScatterUpdate(indices, values)
}

// Scalar is a named persistent integer cell. Like Variable, it performs
// no internal locking.
type Scalar struct {
	name  string
	value int
}

// Name returns the cell's unique name
func (s *Scalar) Name() string {
	return s.name
}

// Get returns the current value
func (s *Scalar) Get() int {
	return s.value
}

// Set overwrites the current value
func (s *Scalar) Set(value int) {
	s.value = value
}
