// Package pbf reads OSM PBF files.
package pbf

import (
	"context"
	"io"
	"sort"

	osm "github.com/omniscale/go-osm"
	osmpbf "github.com/omniscale/go-osm/parser/pbf"
	"github.com/pkg/errors"

	"github.com/omniscale/osmrender/parser"
)

// Tokenizer returns the elements of a PBF file as tokens in file order.
//
// The file is parsed by a single goroutine that sends element batches over
// unbuffered channels, so only one batch is in flight at any time. The file
// needs to be ordered by type.
type Tokenizer struct {
	r      io.Reader
	cancel context.CancelFunc

	nodes     chan []osm.Node
	ways      chan []osm.Way
	relations chan []osm.Relation
	errc      chan error

	pending []parser.Token
	err     error
}

func New(ctx context.Context, r io.Reader) *Tokenizer {
	ctx, cancel := context.WithCancel(ctx)
	t := &Tokenizer{
		r:         r,
		cancel:    cancel,
		nodes:     make(chan []osm.Node),
		ways:      make(chan []osm.Way),
		relations: make(chan []osm.Relation),
		errc:      make(chan error, 1),
	}

	p := osmpbf.New(r, osmpbf.Config{
		Nodes:       t.nodes,
		Ways:        t.ways,
		Relations:   t.relations,
		Concurrency: 1,
	})
	go func() {
		t.errc <- p.Parse(ctx)
	}()
	return t
}

// Next returns the next token. It returns io.EOF after the last element.
func (t *Tokenizer) Next() (parser.Token, error) {
	for len(t.pending) == 0 {
		if t.err != nil {
			return parser.Token{}, t.err
		}
		select {
		case nds, ok := <-t.nodes:
			if !ok {
				t.nodes = nil
				continue
			}
			for i := range nds {
				t.pending = appendNode(t.pending, &nds[i])
			}
		case ws, ok := <-t.ways:
			if !ok {
				t.ways = nil
				continue
			}
			for i := range ws {
				t.pending = appendWay(t.pending, &ws[i])
			}
		case rels, ok := <-t.relations:
			if !ok {
				t.relations = nil
				continue
			}
			for i := range rels {
				t.pending = appendRelation(t.pending, &rels[i])
			}
		case err := <-t.errc:
			// all batches are sent once Parse returns
			if err != nil {
				t.err = errors.Wrap(err, "parsing PBF")
			} else {
				t.err = io.EOF
			}
		}
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok, nil
}

// Close stops the parser and closes the underlying reader, if it is an
// io.Closer.
func (t *Tokenizer) Close() error {
	t.cancel()
	if t.err == nil {
		// the parser blocks until the current batch is received
		go drain(t.nodes, t.ways, t.relations, t.errc)
		t.err = errors.New("tokenizer closed")
	}
	t.pending = nil
	if c, ok := t.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func drain(nodes chan []osm.Node, ways chan []osm.Way, relations chan []osm.Relation, errc chan error) {
	for {
		select {
		case <-nodes:
		case <-ways:
		case <-relations:
		case <-errc:
			return
		}
	}
}

func appendNode(toks []parser.Token, n *osm.Node) []parser.Token {
	toks = append(toks, parser.Token{Kind: parser.NodeStart, ID: n.ID, Long: n.Long, Lat: n.Lat})
	toks = appendTags(toks, n.Tags)
	return append(toks, parser.Token{Kind: parser.NodeEnd})
}

func appendWay(toks []parser.Token, w *osm.Way) []parser.Token {
	toks = append(toks, parser.Token{Kind: parser.WayStart, ID: w.ID})
	for _, ref := range w.Refs {
		toks = append(toks, parser.Token{Kind: parser.NodeRef, ID: ref})
	}
	toks = appendTags(toks, w.Tags)
	return append(toks, parser.Token{Kind: parser.WayEnd})
}

func appendRelation(toks []parser.Token, r *osm.Relation) []parser.Token {
	toks = append(toks, parser.Token{Kind: parser.RelationStart, ID: r.ID})
	for _, m := range r.Members {
		toks = append(toks, parser.Token{Kind: parser.Member, ID: m.ID, MemberType: m.Type, Role: m.Role})
	}
	toks = appendTags(toks, r.Tags)
	return append(toks, parser.Token{Kind: parser.RelationEnd})
}

// appendTags appends tags sorted by key. PBF tags are unordered and the
// classification depends on the order.
func appendTags(toks []parser.Token, tags osm.Tags) []parser.Token {
	if len(tags) == 0 {
		return toks
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		toks = append(toks, parser.Token{Kind: parser.Tag, Key: k, Value: tags[k]})
	}
	return toks
}
