// Package query decodes the closure of a selection: selected composites
// with all their lines and selected lines with all their points.
package query

import (
	"context"
	"io"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"

	"github.com/omniscale/osmrender/cache"
	"github.com/omniscale/osmrender/element"
	"github.com/omniscale/osmrender/geom"
	"github.com/omniscale/osmrender/logging"
	"github.com/omniscale/osmrender/parser"
	"github.com/omniscale/osmrender/reader"
)

var log = logging.NewLogger("query")

// tokens between context checks
const checkInterval = 4096

// Source is a named input that can be read multiple times.
type Source struct {
	Name string
	Open reader.Opener
}

// Store memoizes query results. Get returns cache.NotFound for missing
// entries.
type Store interface {
	Get(key []byte) (*element.Collection, error)
	Put(key []byte, c *element.Collection) error
}

// errStop ends a pass before the end of the input.
var errStop = errors.New("stop")

// scan calls fn for each token of a new pass over src.
func scan(ctx context.Context, src Source, fn func(parser.Token) error) error {
	tokens, err := src.Open(ctx)
	if err != nil {
		return err
	}
	if c, ok := tokens.(io.Closer); ok {
		defer c.Close()
	}
	for n := 0; ; n++ {
		if n%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		tok, err := tokens.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(tok); err != nil {
			if err == errStop {
				return nil
			}
			return err
		}
	}
}

func copySet(s parser.IDSet) parser.IDSet {
	c := parser.NewIDSet()
	for id := range s {
		c.Add(id)
	}
	return c
}

// Expand returns the closure of sel. The lines of all selected composites
// are added to the lines and the points of all selected lines are added to
// the points. Member points of composites are added as well.
//
// Nil sets of sel are treated as empty, unless sel selects all elements.
// Expand reads src up to twice: once for the composites and, stopping at
// the first composite, once for the lines.
func Expand(ctx context.Context, src Source, sel parser.Selection) (parser.Selection, error) {
	if sel.IsAll() {
		return sel, nil
	}
	res := parser.Selection{
		Points:     copySet(sel.Points),
		Lines:      copySet(sel.Lines),
		Composites: copySet(sel.Composites),
	}

	if len(res.Composites) > 0 {
		var current bool
		err := scan(ctx, src, func(tok parser.Token) error {
			switch tok.Kind {
			case parser.RelationStart:
				current = res.Composites.Has(tok.ID)
			case parser.RelationEnd:
				current = false
			case parser.Member:
				if !current {
					return nil
				}
				switch tok.MemberType {
				case osm.WayMember:
					res.Lines.Add(tok.ID)
				case osm.NodeMember:
					res.Points.Add(tok.ID)
				}
			}
			return nil
		})
		if err != nil {
			return res, errors.Wrap(err, "collecting composite members")
		}
	}

	if len(res.Lines) > 0 {
		var current bool
		err := scan(ctx, src, func(tok parser.Token) error {
			switch tok.Kind {
			case parser.WayStart:
				current = res.Lines.Has(tok.ID)
			case parser.WayEnd:
				current = false
			case parser.NodeRef:
				if current {
					res.Points.Add(tok.ID)
				}
			case parser.RelationStart:
				return errStop
			}
			return nil
		})
		if err != nil {
			return res, errors.Wrap(err, "collecting line points")
		}
	}

	log.Debugf("expanded selection to %d points, %d lines, %d composites",
		len(res.Points), len(res.Lines), len(res.Composites))
	return res, nil
}

// Decode reads all features of src into a collection.
func Decode(ctx context.Context, src Source, opts ...parser.Option) (*element.Collection, error) {
	tokens, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	d := parser.NewDecoder(tokens, opts...)
	defer d.Close()

	coll := &element.Collection{}
	for n := 0; ; n++ {
		if n%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		f, err := d.Next()
		if err == io.EOF {
			return coll, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s", src.Name)
		}
		coll.Add(f)
	}
}

// Run returns the features of the expanded selection with assembled rings.
// Results are memoized in store, if store is not nil. Rings are assembled
// with up to workers goroutines.
func Run(ctx context.Context, src Source, sel parser.Selection, store Store, workers int) (*element.Collection, error) {
	key := cache.Key(src.Name, sel)
	if store != nil {
		coll, err := store.Get(key)
		if err == nil {
			log.Printf("using cached result for %s", src.Name)
			if err := geom.AssembleAll(ctx, coll.Composites, workers); err != nil {
				return nil, err
			}
			return coll, nil
		}
		if err != cache.NotFound {
			log.Warnf("ignoring cache: %s", err)
		}
	}

	expanded, err := Expand(ctx, src, sel)
	if err != nil {
		return nil, err
	}
	coll, err := Decode(ctx, src, parser.WithSelection(expanded), parser.WithoutRingAssembly())
	if err != nil {
		return nil, err
	}
	if err := geom.AssembleAll(ctx, coll.Composites, workers); err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.Put(key, coll); err != nil {
			log.Warnf("unable to cache result: %s", err)
		}
	}
	return coll, nil
}
