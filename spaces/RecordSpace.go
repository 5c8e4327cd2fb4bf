package spaces

import (
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"

	"github.com/graphrl/graphrl/record"
)

// Terminal is the reserved field name for episode-terminal flags
const Terminal string = "terminal"

// RecordSpace is the schema of a full record: an ordered mapping from
// field name to the Space of that field. An optional batch rank marks
// the schema as describing batches of records rather than single ones.
type RecordSpace struct {
	keys      []string
	fields    map[string]Space
	batchRank bool
}

// NewRecordSpace constructs a RecordSpace from named field Spaces
func NewRecordSpace(fields map[string]Space) (*RecordSpace, error) {
	if len(fields) == 0 {
		return nil, errors.New("new record space: no fields")
	}

	keys := make([]string, 0, len(fields))
	for key, field := range fields {
		if field == nil {
			return nil, errors.Errorf("new record space: field %v is nil",
				key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	copied := make(map[string]Space, len(fields))
	for key, field := range fields {
		copied[key] = field
	}

	return &RecordSpace{keys: keys, fields: copied}, nil
}

// WithBatchRank returns a copy of the RecordSpace with a leading batch
// dimension added to its description
func (r *RecordSpace) WithBatchRank() *RecordSpace {
	return &RecordSpace{keys: r.keys, fields: r.fields, batchRank: true}
}

// HasBatchRank returns whether the space describes batches of records
func (r *RecordSpace) HasBatchRank() bool {
	return r.batchRank
}

// Keys returns the field names in stable order
func (r *RecordSpace) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Get returns the Space of the named field
func (r *RecordSpace) Get(name string) (Space, bool) {
	field, ok := r.fields[name]
	return field, ok
}

// HasTerminal returns whether the space declares a boolean terminal
// field, which is required for episode bookkeeping
func (r *RecordSpace) HasTerminal() bool {
	field, ok := r.fields[Terminal]
	if !ok {
		return false
	}
	_, ok = field.(Bool)
	return ok
}

// Validate checks a batch against the schema: every declared field must
// be present with the declared dtype and per-record shape, no
// undeclared fields may appear, and the batch must hold at least one
// record.
func (r *RecordSpace) Validate(b *record.Batch) error {
	if b == nil {
		return errors.New("validate: nil batch")
	}
	if b.Len() < 1 {
		return errors.New("validate: empty batch")
	}

	for _, key := range b.Keys() {
		if _, ok := r.fields[key]; !ok {
			return errors.Errorf("validate: undeclared field %v", key)
		}
	}

	for _, key := range r.keys {
		space := r.fields[key]
		field, ok := b.Field(key)
		if !ok {
			return errors.Errorf("validate: missing field %v", key)
		}
		if field.Dtype() != space.Dtype() {
			return errors.Errorf("validate: field %v has dtype %v, want %v",
				key, field.Dtype(), space.Dtype())
		}

		want := space.Shape()
		have := field.Shape()[1:]
		if len(have) != len(want) {
			return errors.Errorf("validate: field %v has shape %v, want "+
				"per-record shape %v", key, field.Shape(), want)
		}
		for i := range want {
			if have[i] != want[i] {
				return errors.Errorf("validate: field %v has shape %v, "+
					"want per-record shape %v", key, field.Shape(), want)
			}
		}
	}

	return nil
}

// Sample draws a batch of n random records conforming to the schema
func (r *RecordSpace) Sample(rng *rand.Rand, n int) (*record.Batch, error) {
	if n < 1 {
		return nil, errors.Errorf("sample: invalid batch size %v", n)
	}

	fields := make(map[string]*tensor.Dense, len(r.fields))
	for _, key := range r.keys {
		fields[key] = r.fields[key].Sample(rng, n)
	}
	return record.NewBatch(fields)
}
