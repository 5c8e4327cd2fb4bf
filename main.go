package main

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
	"gorgonia.org/tensor"

	"github.com/graphrl/graphrl/engine"
	"github.com/graphrl/graphrl/graph"
	"github.com/graphrl/graphrl/memory/ringbuffer"
	"github.com/graphrl/graphrl/record"
	"github.com/graphrl/graphrl/spaces"
)

// trajectory builds a batch of transitions with a terminal flag on the
// last record
func trajectory(rng *rand.Rand, space *spaces.RecordSpace,
	length int) (*record.Batch, error) {
	b, err := space.Sample(rng, length)
	if err != nil {
		return nil, err
	}

	terminals := make([]bool, length)
	terminals[length-1] = true

	fields := make(map[string]*tensor.Dense)
	for _, key := range b.Keys() {
		field, _ := b.Field(key)
		fields[key] = field
	}
	fields[spaces.Terminal] = tensor.New(tensor.WithShape(length),
		tensor.WithBacking(terminals))

	return record.NewBatch(fields)
}

func main() {
	var seed uint64 = 192382
	rng := rand.New(rand.NewSource(seed))

	// Schema of one stored transition
	space, err := spaces.NewRecordSpace(map[string]spaces.Space{
		"state":         spaces.NewFloat(r1.Interval{Min: -1, Max: 1}, 4),
		"action":        spaces.NewInt(0, 3),
		"reward":        spaces.NewFloat(r1.Interval{Min: -100, Max: 100}),
		spaces.Terminal: spaces.NewBool(),
	})
	if err != nil {
		panic(err)
	}
	space = space.WithBatchRank()

	// Fixed-capacity circular memory with episode bookkeeping
	buffer, err := ringbuffer.New(engine.NewDense(), space, ringbuffer.Config{
		Capacity:         64,
		EpisodeSemantics: true,
	})
	if err != nil {
		panic(err)
	}

	// Run a few episodes through the buffer. The insert fully commits
	// before the dependent samples observe it: the samples hang off a
	// barrier over the insert node.
	for episode := 1; episode <= 12; episode++ {
		batch, err := trajectory(rng, space, 5+rng.Intn(10))
		if err != nil {
			panic(err)
		}

		var recent, episodes *record.Batch
		g := graph.New()

		insert := g.Node("insert", func() error {
			return buffer.Insert(batch)
		})
		committed := g.Barrier("insert-committed", insert)

		g.Node("sample-recent", func() error {
			var err error
			recent, err = buffer.SampleRecent(8)
			return err
		}, committed)
		g.Node("sample-episodes", func() error {
			var err error
			episodes, err = buffer.SampleRecentEpisodes(2)
			return err
		}, committed)

		if err := g.Run(context.Background()); err != nil {
			panic(err)
		}

		fmt.Printf("episode %2d | inserted %2d | size %2d | tracked %2d | "+
			"recent %d | last-2-episodes %d\n", episode, batch.Len(),
			buffer.Size(), buffer.NumEpisodes(), recent.Len(),
			episodes.Len())
	}

	fmt.Println("episode boundaries:", buffer.EpisodeIndices())
}
