package writer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/omniscale/osmrender/element"
	"github.com/omniscale/osmrender/logging"
	"github.com/omniscale/osmrender/mapping"
	"github.com/omniscale/osmrender/proj"
)

var log = logging.NewLogger("writer")

const svgMimeType = "image/svg+xml"

// SVG renders features into z-ordered layers. Features are drawn in the
// order they are added, within their layer.
type SVG struct {
	proj    proj.Projection
	bounds  r2.Rect
	layers  map[int]*layer
	drawn   int
	skipped int
}

// layer buffers the elements of one z level.
type layer struct {
	buf    bytes.Buffer
	canvas *svgo.SVG
}

func NewSVG(p proj.Projection) *SVG {
	return &SVG{
		proj:   p,
		bounds: p.Bounds(),
		layers: make(map[int]*layer),
	}
}

// Drawn returns the number of features that were drawn.
func (s *SVG) Drawn() int { return s.drawn }

// Skipped returns the number of features that were not drawn, either
// because of their category, degenerate geometries or because they are
// outside of the image.
func (s *SVG) Skipped() int { return s.skipped }

func (s *SVG) layer(z int) *svgo.SVG {
	l, ok := s.layers[z]
	if !ok {
		l = &layer{}
		l.canvas = svgo.New(&l.buf)
		s.layers[z] = l
	}
	return l.canvas
}

// Draw renders a single feature and returns whether anything was drawn.
func (s *SVG) Draw(f element.Feature) bool {
	var ok bool
	switch f := f.(type) {
	case *element.PointFeature:
		ok = s.drawPoint(f)
	case *element.LineFeature:
		ok = s.drawLine(f)
	case *element.CompositeFeature:
		ok = s.drawComposite(f)
	}
	if ok {
		s.drawn++
	} else {
		s.skipped++
	}
	return ok
}

func (s *SVG) drawPoint(f *element.PointFeature) bool {
	if !mapping.IsSubwayStop(f.Tags) {
		return false
	}
	c := s.proj.Project(f.Coord())
	if !s.bounds.Intersects(r2.RectFromCenterSize(c, r2.Point{X: roundelSize, Y: roundelSize})) {
		return false
	}
	r := roundelSize / 2
	canvas := s.layer(roundelZ)
	canvas.Gtransform(fmt.Sprintf("translate(%s %s)", num(c.X), num(c.Y)))
	canvas.Circle(0, 0, r*3/4, `fill="none"`, fmt.Sprintf(`stroke="%s"`, roundelRed),
		fmt.Sprintf(`stroke-width="%d"`, r/2))
	canvas.Rect(-r, -r/5, 2*r, 2*r/5, fmt.Sprintf(`fill="%s"`, roundelBlue))
	canvas.Gend()
	return true
}

func (s *SVG) drawLine(f *element.LineFeature) bool {
	style, ok := StyleFor(f.Category)
	if !ok || f.IsDegenerate() {
		return false
	}
	d, ok := s.path(f.Coords, false)
	if !ok {
		return false
	}
	s.layer(style.Z).Path(d, style.attrs())
	return true
}

func (s *SVG) drawComposite(f *element.CompositeFeature) bool {
	style, ok := StyleFor(f.Category)
	if !ok {
		return false
	}

	var paths []string
	if f.Category == element.Underground || f.Rings == nil {
		// networks are drawn line by line
		for _, m := range f.Members {
			if d, ok := s.path(m.Coords, false); ok {
				paths = append(paths, d)
			}
		}
		if len(paths) > 0 {
			paths = []string{strings.Join(paths, " ")}
		}
	} else {
		for i := range f.Rings {
			r := &f.Rings[i]
			if d, ok := s.path(r.Coords(), r.IsClosed()); ok {
				paths = append(paths, d)
			}
		}
	}
	if len(paths) == 0 {
		return false
	}

	canvas := s.layer(style.Z)
	canvas.Group(fmt.Sprintf(`id="c%d"`, f.ID), style.attrs())
	for _, d := range paths {
		canvas.Path(d)
	}
	canvas.Gend()
	return true
}

// path returns the SVG path data for coords. It returns false for
// degenerate paths and for paths outside of the image.
func (s *SVG) path(coords []element.Coord, closed bool) (string, bool) {
	if len(coords) < 2 {
		return "", false
	}
	pts := make([]r2.Point, len(coords))
	for i, c := range coords {
		pts[i] = s.proj.Project(c)
	}
	if !s.bounds.Intersects(r2.RectFromPoints(pts...)) {
		return "", false
	}

	var d strings.Builder
	for i, p := range pts {
		if i == 0 {
			d.WriteString("M")
		} else {
			d.WriteString(" L")
		}
		d.WriteString(num(p.X))
		d.WriteByte(' ')
		d.WriteString(num(p.Y))
	}
	if closed {
		d.WriteString(" Z")
	}
	return d.String(), true
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteTo writes the SVG document with all layers in ascending z order.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	b := s.proj.Bounds()
	width, height := int(b.X.Hi), int(b.Y.Hi)

	cw := &countWriter{w: w}
	canvas := svgo.New(cw)
	canvas.Startview(width, height, 0, 0, width, height)

	zs := make([]int, 0, len(s.layers))
	for z := range s.layers {
		zs = append(zs, z)
	}
	sort.Ints(zs)
	for _, z := range zs {
		if cw.err != nil {
			break
		}
		cw.Write(s.layers[z].buf.Bytes())
	}
	canvas.End()
	return cw.n, cw.err
}

type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

// Minify writes a minified copy of the SVG document from r to w.
func Minify(w io.Writer, r io.Reader) error {
	m := minify.New()
	m.AddFunc(svgMimeType, svg.Minify)
	return m.Minify(svgMimeType, w, r)
}

// WriteFile writes the SVG to filename, optionally minified.
func (s *SVG) WriteFile(filename string, minified bool) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	if minified {
		var raw bytes.Buffer
		if _, err := s.WriteTo(&raw); err != nil {
			f.Close()
			return err
		}
		if err := Minify(w, &raw); err != nil {
			f.Close()
			return errors.Wrapf(err, "minifying %s", filename)
		}
	} else if _, err := s.WriteTo(w); err != nil {
		f.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	log.Printf("wrote %d features to %s (%d skipped)", s.drawn, filename, s.skipped)
	return f.Close()
}
