// Package ringbuffer implements a fixed-capacity circular trajectory
// memory. Records are inserted in batches at a circular write cursor,
// overwriting the oldest data once the buffer is full, and read back as
// the most recently inserted records or the most recently completed
// episodes.
//
// A single buffer supports one writer at a time and any number of
// concurrent readers. Within one insert, the effect steps run as nodes
// of an explicit dependency graph so that the terminal-flag pre-read,
// the per-field scatter writes, the episode bookkeeping, and the
// cursor commit are ordered correctly and readers see all of an
// insert's effects or none of them.
package ringbuffer

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/graphrl/graphrl/engine"
	"github.com/graphrl/graphrl/memory"
	"github.com/graphrl/graphrl/spaces"
)

// DefaultScope prefixes the buffer's cell names when Config.Scope is
// left empty
const DefaultScope string = "ring-buffer"

// Config implements a specific configuration of a RingBuffer
type Config struct {
	// Capacity is the fixed maximum number of records, immutable after
	// construction
	Capacity int

	// EpisodeSemantics enables episode-boundary bookkeeping and the
	// SampleRecentEpisodes query. Requires a bool "terminal" field in
	// the record space.
	EpisodeSemantics bool

	// Scope prefixes the names of the buffer's backing cells
	Scope string

	// Logger traces the buffer's internal graph execution. The zero
	// value disables logging.
	Logger zerolog.Logger
}

// Create creates and returns the RingBuffer with the specified Config
func (c Config) Create(e engine.Engine,
	space *spaces.RecordSpace) (*RingBuffer, error) {
	return New(e, space, c)
}

// RingBuffer implements memory.Memory as a circular store of records
type RingBuffer struct {
	mu sync.RWMutex

	space            *spaces.RecordSpace
	capacity         int
	episodeSemantics bool
	log              zerolog.Logger

	store *recordStore
}

// Compile-time interface check
var _ memory.Memory = (*RingBuffer)(nil)

// New creates and returns a new RingBuffer holding records described by
// space, with all backing cells allocated from e
func New(e engine.Engine, space *spaces.RecordSpace,
	c Config) (*RingBuffer, error) {
	if e == nil {
		return nil, &BufferError{
			Op:   "new",
			Kind: KindConfiguration,
			Err:  errNilEngine,
		}
	}
	if space == nil {
		return nil, &BufferError{
			Op:   "new",
			Kind: KindConfiguration,
			Err:  errNilSpace,
		}
	}
	if c.Capacity <= 0 {
		return nil, &BufferError{
			Op:   "new",
			Kind: KindConfiguration,
			Err:  errInvalidCapacity,
		}
	}
	if c.EpisodeSemantics && !space.HasTerminal() {
		return nil, &BufferError{
			Op:   "new",
			Kind: KindConfiguration,
			Err:  errNoTerminalField,
		}
	}

	scope := c.Scope
	if scope == "" {
		scope = DefaultScope
	}

	store, err := newRecordStore(e, space, c.Capacity, c.EpisodeSemantics,
		scope)
	if err != nil {
		return nil, &BufferError{
			Op:   "new",
			Kind: KindConfiguration,
			Err:  err,
		}
	}

	return &RingBuffer{
		space:            space,
		capacity:         c.Capacity,
		episodeSemantics: c.EpisodeSemantics,
		log:              c.Logger,
		store:            store,
	}, nil
}

// Capacity returns the fixed maximum number of records
func (r *RingBuffer) Capacity() int {
	return r.capacity
}

// Size returns the number of distinct records currently held
func (r *RingBuffer) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.size.Get()
}

// Index returns the next circular write position
func (r *RingBuffer) Index() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.index.Get()
}

// EpisodeSemantics returns whether episode bookkeeping is enabled
func (r *RingBuffer) EpisodeSemantics() bool {
	return r.episodeSemantics
}

// NumEpisodes returns the number of complete episodes currently
// tracked, or 0 when episode semantics are disabled
func (r *RingBuffer) NumEpisodes() int {
	if !r.episodeSemantics {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.numEpisodes.Get()
}

// EpisodeIndices returns the circular positions of the tracked terminal
// records, oldest first, or nil when episode semantics are disabled
func (r *RingBuffer) EpisodeIndices() []int {
	if !r.episodeSemantics {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	tracked, err := r.store.trackedEpisodes()
	if err != nil {
		return nil
	}
	return tracked
}
