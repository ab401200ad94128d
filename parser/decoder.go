package parser

import (
	"io"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"

	"github.com/omniscale/osmrender/element"
	"github.com/omniscale/osmrender/geom"
	"github.com/omniscale/osmrender/logging"
	"github.com/omniscale/osmrender/mapping"
)

var log = logging.NewLogger("parser")

// Phase is the element type the decoder currently accepts. Phases only
// advance, a phase is never entered twice.
type Phase int

const (
	ScanningPoints Phase = iota
	ScanningLines
	ScanningComposites
)

func (p Phase) String() string {
	switch p {
	case ScanningPoints:
		return "scanning points"
	case ScanningLines:
		return "scanning lines"
	case ScanningComposites:
		return "scanning composites"
	}
	return "invalid phase"
}

type Option func(*Decoder)

// WithSelection limits the decoded elements to sel.
func WithSelection(sel Selection) Option {
	return func(d *Decoder) { d.sel = sel }
}

// WithoutRingAssembly returns composites without rings. Rings can be
// assembled later with geom.AssembleAll.
func WithoutRingAssembly() Option {
	return func(d *Decoder) { d.assemble = false }
}

func WithLogger(l *logging.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

// Decoder builds classified features from a Tokenizer in a single pass.
// The input needs to be ordered by type: all nodes, then all ways, then all
// relations.
type Decoder struct {
	tokens   Tokenizer
	sel      Selection
	assemble bool
	log      *logging.Logger

	phase  Phase
	points *pointIndex
	lines  *lineIndex
	err    error

	// state of the currently open element
	open      TokenKind
	selected  bool
	id        int64
	coord     element.Coord
	tags      element.Tags
	refs      []int64
	coords    []element.Coord
	members   []*element.Polyline
	memberPts []element.Point
	dropped   int
}

func NewDecoder(t Tokenizer, opts ...Option) *Decoder {
	d := &Decoder{
		tokens:   t,
		assemble: true,
		log:      log,
		points:   newPointIndex(),
		lines:    newLineIndex(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Phase returns the current phase of the decoder.
func (d *Decoder) Phase() Phase {
	return d.phase
}

// Next returns the next feature in file order. It returns io.EOF after the
// last feature. After any other error, Next keeps returning that error.
func (d *Decoder) Next() (element.Feature, error) {
	if d.err != nil {
		return nil, d.err
	}
	f, err := d.next()
	if err != nil {
		d.err = err
		return nil, err
	}
	return f, nil
}

// Close closes the underlying Tokenizer, if it is an io.Closer. All
// following calls to Next return an error.
func (d *Decoder) Close() error {
	if d.err == nil {
		d.err = errors.New("decoder closed")
	}
	if c, ok := d.tokens.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (d *Decoder) next() (element.Feature, error) {
	for {
		tok, err := d.tokens.Next()
		if err == io.EOF {
			if d.open != 0 {
				return nil, errors.Wrapf(io.ErrUnexpectedEOF, "%s %d not closed", d.openKind(), d.id)
			}
			d.finish()
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading next token")
		}
		f, err := d.handle(tok)
		if err != nil {
			return nil, err
		}
		if f != nil {
			return f, nil
		}
	}
}

func (d *Decoder) handle(tok Token) (element.Feature, error) {
	switch tok.Kind {
	case NodeStart:
		if d.phase != ScanningPoints {
			return nil, &OrderViolationError{Kind: element.PointKind, ID: tok.ID, Phase: d.phase}
		}
		d.start(tok)
		d.selected = d.sel.point(tok.ID)
		d.coord = element.Coord{Long: tok.Long, Lat: tok.Lat}
		if d.selected {
			d.points.put(tok.ID, d.coord)
		}
	case WayStart:
		if d.phase == ScanningComposites {
			return nil, &OrderViolationError{Kind: element.LineKind, ID: tok.ID, Phase: d.phase}
		}
		d.advance(ScanningLines)
		d.start(tok)
		d.selected = d.sel.line(tok.ID)
	case RelationStart:
		d.advance(ScanningComposites)
		d.start(tok)
		d.selected = d.sel.composite(tok.ID)
	case Tag:
		if d.open != 0 && d.selected {
			d.tags = append(d.tags, element.Tag{Key: tok.Key, Value: tok.Value})
		}
	case NodeRef:
		if d.open != WayStart || !d.selected {
			return nil, nil
		}
		c, ok := d.points.get(tok.ID)
		if !ok {
			return nil, &UnresolvedReferenceError{LineID: d.id, PointID: tok.ID}
		}
		d.refs = append(d.refs, tok.ID)
		d.coords = append(d.coords, c)
	case Member:
		if d.open != RelationStart || !d.selected {
			return nil, nil
		}
		d.member(tok)
	case NodeEnd:
		return d.end(NodeStart, d.closePoint)
	case WayEnd:
		return d.end(WayStart, d.closeLine)
	case RelationEnd:
		return d.end(RelationStart, d.closeComposite)
	}
	return nil, nil
}

// advance moves the decoder to phase p and freezes the indices of all
// passed phases.
func (d *Decoder) advance(p Phase) {
	if d.phase >= p {
		return
	}
	if p >= ScanningLines && !d.points.frozen {
		d.points.freeze()
		d.log.Debugf("indexed %d points", d.points.len())
	}
	if p >= ScanningComposites && !d.lines.frozen {
		d.lines.freeze()
		d.log.Debugf("indexed %d lines", d.lines.len())
	}
	d.log.Debugf("%s", p)
	d.phase = p
}

func (d *Decoder) start(tok Token) {
	d.reset()
	d.open = tok.Kind
	d.id = tok.ID
}

func (d *Decoder) reset() {
	d.open = 0
	d.selected = false
	d.id = 0
	d.coord = element.Coord{}
	d.tags = d.tags[:0]
	d.refs = nil
	d.coords = nil
	d.members = nil
	d.memberPts = nil
}

func (d *Decoder) end(open TokenKind, closeFunc func() (element.Feature, error)) (element.Feature, error) {
	if d.open != open {
		// end without matching start, nothing to close
		return nil, nil
	}
	var f element.Feature
	var err error
	if d.selected {
		f, err = closeFunc()
	}
	d.reset()
	return f, err
}

func (d *Decoder) member(tok Token) {
	switch tok.MemberType {
	case osm.WayMember:
		line, ok := d.lines.get(tok.ID)
		if !ok {
			d.dropped++
			d.log.Debugf("dropped unknown line %d of composite %d", tok.ID, d.id)
			return
		}
		d.members = append(d.members, line)
	case osm.NodeMember:
		if c, ok := d.points.get(tok.ID); ok {
			d.memberPts = append(d.memberPts, element.Point{ID: tok.ID, Long: c.Long, Lat: c.Lat})
		}
	}
}

func (d *Decoder) closePoint() (element.Feature, error) {
	f := &element.PointFeature{
		Point: element.Point{ID: d.id, Long: d.coord.Long, Lat: d.coord.Lat},
	}
	if len(d.tags) > 0 {
		f.Tags = make(element.TagSet, len(d.tags))
		for _, t := range d.tags {
			f.Tags.Add(t.Key, t.Value)
		}
	}
	return f, nil
}

func (d *Decoder) closeLine() (element.Feature, error) {
	line := &element.Polyline{ID: d.id, Refs: d.refs, Coords: d.coords}
	d.lines.put(line)
	return &element.LineFeature{
		Polyline: line,
		Category: mapping.Classify(d.tags),
	}, nil
}

func (d *Decoder) closeComposite() (element.Feature, error) {
	if len(d.members) == 0 {
		d.log.Debugf("skipping composite %d without known lines", d.id)
		return nil, nil
	}
	f := &element.CompositeFeature{
		Composite: &element.Composite{ID: d.id, Members: d.members, Points: d.memberPts},
		Category:  mapping.Classify(d.tags),
	}
	if d.assemble {
		rings, err := geom.Assemble(f.Members)
		if err != nil {
			return nil, errors.Wrapf(err, "assembling rings of composite %d", d.id)
		}
		f.Rings = rings
	}
	return f, nil
}

func (d *Decoder) finish() {
	if d.dropped > 0 {
		d.log.Debugf("dropped %d unknown composite members", d.dropped)
	}
}

func (d *Decoder) openKind() element.Kind {
	switch d.open {
	case WayStart:
		return element.LineKind
	case RelationStart:
		return element.CompositeKind
	}
	return element.PointKind
}
