package ringbuffer

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/graphrl/graphrl/engine"
	"github.com/graphrl/graphrl/spaces"
)

// recordStore owns the buffer's backing cells: one tensor variable per
// record field plus the index, size, and optional episode-tracking
// cells. All cells start zeroed.
type recordStore struct {
	keys   []string
	fields map[string]*engine.Variable

	// Next write position and number of valid records
	index *engine.Scalar
	size  *engine.Scalar

	// Circular positions of terminal records still present, kept
	// contiguous and chronologically ordered. Nil unless episode
	// semantics are enabled.
	episodeIndices *engine.Variable
	numEpisodes    *engine.Scalar
}

// newRecordStore allocates all backing cells for a buffer of the given
// capacity and schema. Cell names are prefixed with scope so that
// several buffers can share one engine.
func newRecordStore(e engine.Engine, space *spaces.RecordSpace, capacity int,
	episodeSemantics bool, scope string) (*recordStore, error) {

	keys := space.Keys()
	fields := make(map[string]*engine.Variable, len(keys))
	for _, key := range keys {
		field, _ := space.Get(key)
		shape := append([]int{capacity}, field.Shape()...)

		cell, err := e.NewVariable(scope+"/"+key, shape, field.Dtype())
		if err != nil {
			return nil, fmt.Errorf("new record store: %v", err)
		}
		fields[key] = cell
	}

	index, err := e.NewScalar(scope+"/index", 0)
	if err != nil {
		return nil, fmt.Errorf("new record store: %v", err)
	}
	size, err := e.NewScalar(scope+"/size", 0)
	if err != nil {
		return nil, fmt.Errorf("new record store: %v", err)
	}

	store := &recordStore{
		keys:   keys,
		fields: fields,
		index:  index,
		size:   size,
	}

	if episodeSemantics {
		store.numEpisodes, err = e.NewScalar(scope+"/num-episodes", 0)
		if err != nil {
			return nil, fmt.Errorf("new record store: %v", err)
		}
		store.episodeIndices, err = e.NewVariable(scope+"/episode-indices",
			[]int{capacity}, tensor.Int)
		if err != nil {
			return nil, fmt.Errorf("new record store: %v", err)
		}
	}

	return store, nil
}

// trackedEpisodes returns the circular positions of the currently
// tracked terminal records, oldest first
func (s *recordStore) trackedEpisodes() ([]int, error) {
	num := s.numEpisodes.Get()
	if num == 0 {
		return []int{}, nil
	}

	indices := make([]int, num)
	for i := range indices {
		indices[i] = i
	}
	tracked, err := s.episodeIndices.Gather(indices)
	if err != nil {
		return nil, err
	}
	return tracked.Data().([]int), nil
}
