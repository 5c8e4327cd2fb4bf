// Package record implements structured batches of records. A record is
// one transition-like entry whose named fields (state, action, reward,
// terminal, ...) are always written and read together.
package record

import (
	"fmt"
	"sort"

	"gorgonia.org/tensor"
)

// Batch holds one tensor per field, all sharing the same leading
// (batch) length. Field order is stable and alphabetical.
type Batch struct {
	keys   []string
	fields map[string]*tensor.Dense
	length int
}

// NewBatch constructs a Batch from per-field tensors. Every tensor must
// have the same leading dimension.
func NewBatch(fields map[string]*tensor.Dense) (*Batch, error) {
	if len(fields) == 0 {
		return Empty(), nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	length := -1
	for _, key := range keys {
		field := fields[key]
		if field == nil {
			return nil, fmt.Errorf("new batch: field %v is nil", key)
		}
		if field.Dims() < 1 {
			return nil, fmt.Errorf("new batch: field %v has no batch "+
				"dimension", key)
		}
		n := field.Shape()[0]
		if length == -1 {
			length = n
		} else if n != length {
			return nil, fmt.Errorf("new batch: field %v has length %v, "+
				"want %v", key, n, length)
		}
	}

	return &Batch{keys: keys, fields: fields, length: length}, nil
}

// Empty returns a Batch of length 0 holding no field data. Sampling
// from an empty memory yields such a batch.
func Empty() *Batch {
	return &Batch{fields: make(map[string]*tensor.Dense)}
}

// Len returns the number of records in the batch
func (b *Batch) Len() int {
	return b.length
}

// Keys returns the field names in stable order
func (b *Batch) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Field returns the tensor backing the named field
func (b *Batch) Field(name string) (*tensor.Dense, bool) {
	field, ok := b.fields[name]
	return field, ok
}

// Floats returns the named field's backing data as a []float64
func (b *Batch) Floats(name string) ([]float64, error) {
	field, ok := b.fields[name]
	if !ok {
		return nil, fmt.Errorf("floats: no such field %v", name)
	}
	data, ok := field.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("floats: field %v holds %v", name,
			field.Dtype())
	}
	return data, nil
}

// Ints returns the named field's backing data as an []int
func (b *Batch) Ints(name string) ([]int, error) {
	field, ok := b.fields[name]
	if !ok {
		return nil, fmt.Errorf("ints: no such field %v", name)
	}
	data, ok := field.Data().([]int)
	if !ok {
		return nil, fmt.Errorf("ints: field %v holds %v", name,
			field.Dtype())
	}
	return data, nil
}

// Bools returns the named field's backing data as a []bool
func (b *Batch) Bools(name string) ([]bool, error) {
	field, ok := b.fields[name]
	if !ok {
		return nil, fmt.Errorf("bools: no such field %v", name)
	}
	data, ok := field.Data().([]bool)
	if !ok {
		return nil, fmt.Errorf("bools: field %v holds %v", name,
			field.Dtype())
	}
	return data, nil
}

// Terminals returns the terminal flags of the batch. The batch must
// have a bool field named "terminal".
func (b *Batch) Terminals() ([]bool, error) {
	return b.Bools("terminal")
}

// Slice returns a new Batch holding the records in [from, to). The
// returned batch copies its data and shares nothing with the receiver.
func (b *Batch) Slice(from, to int) (*Batch, error) {
	if from < 0 || to > b.length || from > to {
		return nil, fmt.Errorf("slice: bounds [%v, %v) out of range for "+
			"length %v", from, to, b.length)
	}
	if from == to {
		return Empty(), nil
	}

	fields := make(map[string]*tensor.Dense, len(b.fields))
	for _, key := range b.keys {
		field := b.fields[key]
		rowSize := field.Shape().TotalSize() / b.length

		shape := make([]int, field.Dims())
		copy(shape, field.Shape())
		shape[0] = to - from

		switch data := field.Data().(type) {
		case []float64:
			backing := make([]float64, (to-from)*rowSize)
			copy(backing, data[from*rowSize:to*rowSize])
			fields[key] = tensor.New(tensor.WithShape(shape...),
				tensor.WithBacking(backing))
		case []int:
			backing := make([]int, (to-from)*rowSize)
			copy(backing, data[from*rowSize:to*rowSize])
			fields[key] = tensor.New(tensor.WithShape(shape...),
				tensor.WithBacking(backing))
		case []bool:
			backing := make([]bool, (to-from)*rowSize)
			copy(backing, data[from*rowSize:to*rowSize])
			fields[key] = tensor.New(tensor.WithShape(shape...),
				tensor.WithBacking(backing))
		default:
			return nil, fmt.Errorf("slice: field %v holds unsupported "+
				"dtype %v", key, field.Dtype())
		}
	}

	return NewBatch(fields)
}

func (b *Batch) String() string {
	str := "Batch | Length: %v | Fields: %v"
	return fmt.Sprintf(str, b.length, b.keys)
}
