package ringbuffer

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/graphrl/graphrl/record"
)

// Gather reads the records stored at the given circular positions,
// preserving index order. Indices may be non-contiguous, wrapped, or
// repeated. Gather is a pure read and is safe to call concurrently with
// other reads.
func (r *RingBuffer) Gather(indices []int) (*record.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	batch, err := r.gatherLocked(indices)
	if err != nil {
		return nil, fmt.Errorf("gather: %v", err)
	}
	return batch, nil
}

// gatherLocked collects every field at the given positions into one
// structured batch. Callers hold at least a read lock.
func (r *RingBuffer) gatherLocked(indices []int) (*record.Batch, error) {
	if len(indices) == 0 {
		return record.Empty(), nil
	}

	fields := make(map[string]*tensor.Dense, len(r.store.keys))
	for _, key := range r.store.keys {
		gathered, err := r.store.fields[key].Gather(indices)
		if err != nil {
			return nil, err
		}
		fields[key] = gathered
	}

	return record.NewBatch(fields)
}
