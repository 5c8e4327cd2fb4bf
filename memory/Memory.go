// Package memory defines the interface of trajectory memories exposed
// to the owning agent
package memory

import "github.com/graphrl/graphrl/record"

// Memory implements a fixed-capacity store of records written in
// batches and read back as the most recently inserted data
type Memory interface {
	// Insert commits a batch of records. The batch must conform to the
	// memory's record schema.
	Insert(b *record.Batch) error

	// SampleRecent returns the min(n, Size()) most recently inserted
	// records, oldest first. An empty memory yields an empty batch,
	// never an error.
	SampleRecent(n int) (*record.Batch, error)

	// SampleRecentEpisodes returns the records of the most recent
	// complete episodes, oldest first, up to k episodes
	SampleRecentEpisodes(k int) (*record.Batch, error)

	// Capacity returns the maximum number of records the memory holds
	Capacity() int

	// Size returns the number of distinct records currently held
	Size() int
}
