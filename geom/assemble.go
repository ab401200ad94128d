package geom

import (
	"context"

	"github.com/destel/rill"
	"github.com/pkg/errors"

	"github.com/omniscale/osmrender/element"
)

// AssembleAll assembles the rings of all composites that have no rings yet,
// using up to workers goroutines. Each composite is only touched by a single
// goroutine.
func AssembleAll(ctx context.Context, composites []*element.CompositeFeature, workers int) error {
	if workers < 1 {
		workers = 1
	}
	todo := rill.FromSlice(composites, nil)
	return rill.ForEach(todo, workers, func(c *element.CompositeFeature) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.Rings != nil {
			return nil
		}
		rings, err := Assemble(c.Members)
		if err != nil {
			return errors.Wrapf(err, "assembling rings of composite %d", c.ID)
		}
		c.Rings = rings
		return nil
	})
}
