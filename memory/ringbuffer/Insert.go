package ringbuffer

import (
	"context"
	"fmt"

	"gorgonia.org/tensor"

	"github.com/graphrl/graphrl/graph"
	"github.com/graphrl/graphrl/record"
	"github.com/graphrl/graphrl/utils/intutils"
)

// Insert commits a batch of records at the circular write cursor,
// overwriting whatever occupied the destination slots. A batch larger
// than the buffer's capacity is permitted; only its trailing capacity
// records survive.
//
// The insert's effect steps run as a dependency graph:
//
//	pre-read of tracked episodes
//	  -> scatter write per field (concurrently)
//	    -> records-written barrier
//	      -> episode bookkeeping commit
//	        -> index/size commit
//
// The terminal pre-read therefore happens before the scatter that would
// destroy the flags it counts, and the cursor only moves once every
// other effect has committed. Readers are excluded for the whole graph
// run, so they observe all of an insert's effects or none of them.
func (r *RingBuffer) Insert(b *record.Batch) error {
	if err := r.space.Validate(b); err != nil {
		return &BufferError{Op: "insert", Kind: KindSchemaMismatch, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := b.Len()
	index := r.store.index.Get()
	size := r.store.size.Get()

	// Only the trailing capacity records of an oversized batch can
	// survive; earlier ones would be overwritten within the same call.
	written := b
	if n > r.capacity {
		var err error
		written, err = b.Slice(n-r.capacity, n)
		if err != nil {
			return fmt.Errorf("insert: %v", err)
		}
	}
	m := written.Len()

	// Destination window: m consecutive circular positions ending at
	// the post-insert cursor.
	start := intutils.Mod(index+n-m, r.capacity)
	dest := make([]int, m)
	for j := range dest {
		dest[j] = (start + j) % r.capacity
	}

	g := graph.NewWithLogger(r.log)

	// Episode state captured before any write commits
	var survivors, inserted []int

	preRead := g.Node("read-tracked-episodes", func() error {
		if !r.episodeSemantics {
			return nil
		}

		tracked, err := r.store.trackedEpisodes()
		if err != nil {
			return err
		}

		// Tracked positions inside the destination window are about to
		// be evicted. The window covers the chronologically oldest
		// records, so evicted entries are always a prefix of the
		// tracked list.
		evicted := 0
		for _, position := range tracked {
			if intutils.Mod(position-start, r.capacity) < m {
				evicted++
			}
		}
		survivors = tracked[evicted:]

		terminals, err := written.Terminals()
		if err != nil {
			return err
		}
		for j, terminal := range terminals {
			if terminal {
				inserted = append(inserted, dest[j])
			}
		}
		return nil
	})

	scatters := make([]*graph.Node, 0, len(r.store.keys))
	for _, key := range r.store.keys {
		key := key
		scatters = append(scatters, g.Node("scatter-"+key, func() error {
			values, _ := written.Field(key)
			return r.store.fields[key].ScatterUpdate(dest, values)
		}, preRead))
	}

	recordsWritten := g.Barrier("records-written", scatters...)

	episodeCommit := g.Node("commit-episodes", func() error {
		if !r.episodeSemantics {
			return nil
		}

		// Drop the evicted prefix, compact the surviving tail to the
		// front, and append the freshly inserted boundaries in batch
		// order.
		updated := make([]int, 0, len(survivors)+len(inserted))
		updated = append(updated, survivors...)
		updated = append(updated, inserted...)

		if len(updated) > 0 {
			positions := tensor.New(tensor.WithShape(len(updated)),
				tensor.WithBacking(updated))
			err := r.store.episodeIndices.ScatterUpdate(
				intutils.Range(0, len(updated)), positions)
			if err != nil {
				return err
			}
		}

		r.store.numEpisodes.Set(len(updated))
		return nil
	}, recordsWritten)

	g.Node("commit-cursor", func() error {
		r.store.index.Set((index + n) % r.capacity)
		r.store.size.Set(intutils.Min(size+n, r.capacity))
		return nil
	}, episodeCommit)

	if err := g.Run(context.Background()); err != nil {
		return fmt.Errorf("insert: %v", err)
	}
	return nil
}
