package ringbuffer

import (
	"fmt"

	"github.com/graphrl/graphrl/record"
	"github.com/graphrl/graphrl/utils/intutils"
)

// SampleRecent returns the min(n, Size()) most recently inserted
// records in chronological order, oldest of the selected window first.
// Requesting more records than are held is not an error; an empty
// buffer yields an empty batch. No record is ever returned twice within
// one call.
func (r *RingBuffer) SampleRecent(n int) (*record.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.store.size.Get()
	index := r.store.index.Get()

	available := intutils.Min(n, size)
	if available <= 0 {
		return record.Empty(), nil
	}

	indices := make([]int, available)
	for j := range indices {
		indices[j] = intutils.Mod(index-available+j, r.capacity)
	}

	batch, err := r.gatherLocked(indices)
	if err != nil {
		return nil, fmt.Errorf("sample recent: %v", err)
	}
	return batch, nil
}

// SampleRecentEpisodes returns the records of the min(k, NumEpisodes())
// most recently completed episodes in chronological order. Episodes are
// maximal runs of stored records ending in a terminal-flagged record,
// so the result always ends at a terminal and never splits a run.
// Requesting more episodes than are tracked is not an error.
func (r *RingBuffer) SampleRecentEpisodes(k int) (*record.Batch, error) {
	if !r.episodeSemantics {
		return nil, &BufferError{
			Op:   "sample recent episodes",
			Kind: KindEpisodeTrackingDisabled,
			Err:  errEpisodeTrackingDisabled,
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	num := r.store.numEpisodes.Get()
	available := intutils.Min(k, num)
	if available <= 0 {
		return record.Empty(), nil
	}

	tracked, err := r.store.trackedEpisodes()
	if err != nil {
		return nil, fmt.Errorf("sample recent episodes: %v", err)
	}

	// The window opens just after the last boundary not selected. When
	// every tracked episode is selected there is no prior boundary and
	// the window opens at the oldest valid record.
	var start int
	if available < num {
		start = intutils.Mod(tracked[num-available-1]+1, r.capacity)
	} else {
		index := r.store.index.Get()
		size := r.store.size.Get()
		start = intutils.Mod(index-size, r.capacity)
	}
	end := tracked[num-1]

	count := intutils.Mod(end-start, r.capacity) + 1
	indices := make([]int, count)
	for j := range indices {
		indices[j] = (start + j) % r.capacity
	}

	batch, err := r.gatherLocked(indices)
	if err != nil {
		return nil, fmt.Errorf("sample recent episodes: %v", err)
	}
	return batch, nil
}
