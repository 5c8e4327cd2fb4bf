// Package engine implements the tensor-execution backend consumed by
// memory components: named persistent mutable storage cells with read,
// assign, and scatter-update operations. The engine owns allocation
// only; ordering of reads and writes against a cell is the caller's
// concern (see the graph package).
package engine

import (
	"sync"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Engine allocates named persistent storage cells. Cell names are
// unique within one Engine.
type Engine interface {
	// NewVariable allocates a zero-initialized tensor cell. The leading
	// dimension of shape is the number of addressable rows.
	NewVariable(name string, shape []int, dt tensor.Dtype) (*Variable, error)

	// NewScalar allocates an integer cell, used for cursors and counts
	NewScalar(name string, init int) (*Scalar, error)
}

// Dense is an in-process Engine backed by dense in-memory tensors
type Dense struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewDense returns a new in-process Engine
func NewDense() *Dense {
	return &Dense{names: make(map[string]struct{})}
}

func (e *Dense) claim(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if name == "" {
		return errors.New("empty variable name")
	}
	if _, ok := e.names[name]; ok {
		return errors.Errorf("variable %v already allocated", name)
	}
	e.names[name] = struct{}{}
	return nil
}

// NewVariable implements Engine
func (e *Dense) NewVariable(name string, shape []int,
	dt tensor.Dtype) (*Variable, error) {
	if err := e.claim(name); err != nil {
		return nil, errors.Wrap(err, "new variable")
	}
	if len(shape) < 1 || shape[0] < 1 {
		return nil, errors.Errorf("new variable: %v needs a positive "+
			"leading dimension, got shape %v", name, shape)
	}

	rowSize := 1
	for _, dim := range shape[1:] {
		if dim < 1 {
			return nil, errors.Errorf("new variable: %v has invalid "+
				"shape %v", name, shape)
		}
		rowSize *= dim
	}

	total := shape[0] * rowSize
	var data *tensor.Dense
	switch dt {
	case tensor.Float64:
		data = tensor.New(tensor.WithShape(shape...),
			tensor.WithBacking(make([]float64, total)))
	case tensor.Int:
		data = tensor.New(tensor.WithShape(shape...),
			tensor.WithBacking(make([]int, total)))
	case tensor.Bool:
		data = tensor.New(tensor.WithShape(shape...),
			tensor.WithBacking(make([]bool, total)))
	default:
		return nil, errors.Errorf("new variable: %v has unsupported "+
			"dtype %v", name, dt)
	}

	return &Variable{
		name:    name,
		dt:      dt,
		rows:    shape[0],
		rowSize: rowSize,
		shape:   shape,
		data:    data,
	}, nil
}

// NewScalar implements Engine
func (e *Dense) NewScalar(name string, init int) (*Scalar, error) {
	if err := e.claim(name); err != nil {
		return nil, errors.Wrap(err, "new scalar")
	}
	return &Scalar{name: name, value: init}, nil
}
