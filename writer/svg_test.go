package writer

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniscale/osmrender/element"
	"github.com/omniscale/osmrender/proj"
)

// 1 px per 0.01 degree, origin at 0/0
func testSVG() *SVG {
	return NewSVG(proj.NewFlat(element.Coord{Long: 0, Lat: 0}, 100, 1000, 1000))
}

func line(id int64, coords ...float64) *element.Polyline {
	l := &element.Polyline{ID: id}
	for i := 0; i+1 < len(coords); i += 2 {
		l.Coords = append(l.Coords, element.Coord{Long: coords[i], Lat: -coords[i+1]})
	}
	return l
}

func render(t *testing.T, s *SVG) string {
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestDrawLine(t *testing.T) {
	s := testSVG()
	ok := s.Draw(&element.LineFeature{Polyline: line(1, 1, 1, 2, 1, 2, 3), Category: element.Highway})
	assert.True(t, ok)

	out := render(t, s)
	assert.Contains(t, out, `<path d="M100 100 L200 100 L200 300" fill="none" stroke="black" stroke-width="10"`)
	assert.Contains(t, out, `width="1000"`)
	assert.Contains(t, out, `height="1000"`)
	assert.Contains(t, out, `viewBox="0 0 1000 1000"`)
	assert.Equal(t, 1, strings.Count(out, "<svg"))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestDrawSkipped(t *testing.T) {
	s := testSVG()
	// unknown category
	assert.False(t, s.Draw(&element.LineFeature{Polyline: line(1, 1, 1, 2, 2)}))
	// buildings are not rendered
	assert.False(t, s.Draw(&element.LineFeature{Polyline: line(2, 1, 1, 2, 2), Category: element.Building}))
	// degenerate
	assert.False(t, s.Draw(&element.LineFeature{Polyline: line(3, 1, 1), Category: element.Highway}))
	// outside of the image
	assert.False(t, s.Draw(&element.LineFeature{Polyline: line(4, 20, 20, 30, 30), Category: element.Highway}))
	// plain point
	assert.False(t, s.Draw(&element.PointFeature{Point: element.Point{ID: 5, Long: 1, Lat: -1}}))

	assert.Equal(t, 0, s.Drawn())
	assert.Equal(t, 5, s.Skipped())
	assert.NotContains(t, render(t, s), "<path")
}

func TestDrawLineCrossingBorder(t *testing.T) {
	s := testSVG()
	assert.True(t, s.Draw(&element.LineFeature{Polyline: line(1, -1, 1, 1, 1), Category: element.Railway}))
}

func TestDrawSubwayStop(t *testing.T) {
	s := testSVG()
	tags := element.TagSet{}
	tags.Add("railway", "stop")
	tags.Add("subway", "yes")
	tags.Add("public_transport", "stop_position")

	ok := s.Draw(&element.PointFeature{Point: element.Point{ID: 1, Long: 5, Lat: -5}, Tags: tags})
	assert.True(t, ok)
	out := render(t, s)
	assert.Contains(t, out, `<g transform="translate(500 500)">`)
	assert.Contains(t, out, `<circle cx="0" cy="0" r="75"`)
	assert.Contains(t, out, `stroke="`+roundelRed+`" stroke-width="50"`)
	assert.Contains(t, out, `<rect x="-100" y="-20" width="200" height="40"`)
	assert.Contains(t, out, roundelBlue)
	assert.Contains(t, out, "</g>")
}

func TestDrawCompositeRings(t *testing.T) {
	s := testSVG()
	a := line(1, 1, 1, 2, 1, 2, 2)
	b := line(2, 2, 2, 1, 1)
	open := line(3, 5, 5, 6, 6)
	f := &element.CompositeFeature{
		Composite: &element.Composite{ID: 7, Members: []*element.Polyline{a, b, open}},
		Rings: []element.Ring{
			{Lines: []*element.Polyline{a, b}, Reversed: []bool{false, false}},
			{Lines: []*element.Polyline{open}, Reversed: []bool{false}},
		},
		Category: element.WaterBody,
	}
	assert.True(t, s.Draw(f))

	out := render(t, s)
	assert.Contains(t, out, `<g id="c7" fill="lightblue" stroke="none"`)
	assert.Contains(t, out, `<path d="M100 100 L200 100 L200 200 L100 100 Z"`)
	assert.Contains(t, out, `<path d="M500 500 L600 600"`)
	assert.Equal(t, 2, strings.Count(out, "<path"))
}

func TestDrawCompositeWithoutRings(t *testing.T) {
	s := testSVG()
	f := &element.CompositeFeature{
		Composite: &element.Composite{ID: 8, Members: []*element.Polyline{
			line(1, 1, 1, 2, 2),
			line(2, 3, 3, 4, 4),
		}},
		Category: element.Underground,
	}
	assert.True(t, s.Draw(f))
	out := render(t, s)
	assert.Contains(t, out, `<path d="M100 100 L200 200 M300 300 L400 400"`)
	assert.Equal(t, 1, strings.Count(out, "<path"))
}

func TestLayerOrder(t *testing.T) {
	s := testSVG()
	s.Draw(&element.LineFeature{Polyline: line(1, 1, 1, 2, 2), Category: element.Highway})
	s.Draw(&element.LineFeature{Polyline: line(2, 1, 1, 2, 2), Category: element.Waterway})
	s.Draw(&element.LineFeature{Polyline: line(3, 1, 1, 2, 2), Category: element.Railway})

	out := render(t, s)
	waterway := strings.Index(out, `stroke="blue"`)
	railway := strings.Index(out, `stroke="grey"`)
	highway := strings.Index(out, `stroke="black"`)
	assert.True(t, waterway < railway && railway < highway, "%d %d %d", waterway, railway, highway)
}

func TestWriteFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "osmrender_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s := testSVG()
	s.Draw(&element.LineFeature{Polyline: line(1, 1, 1, 2, 1, 2, 3), Category: element.Highway})

	plain := filepath.Join(dir, "plain.svg")
	require.NoError(t, s.WriteFile(plain, false))
	min := filepath.Join(dir, "min.svg")
	require.NoError(t, s.WriteFile(min, true))

	plainB, err := ioutil.ReadFile(plain)
	require.NoError(t, err)
	minB, err := ioutil.ReadFile(min)
	require.NoError(t, err)

	assert.Equal(t, render(t, s), string(plainB))
	assert.True(t, len(minB) < len(plainB), "%d >= %d", len(minB), len(plainB))
	assert.Contains(t, string(minB), "<svg")
}

func TestStyleFor(t *testing.T) {
	_, ok := StyleFor(element.Unknown)
	assert.False(t, ok)
	_, ok = StyleFor(element.Building)
	assert.False(t, ok)

	for _, cat := range []element.Category{element.Railway, element.Highway, element.WaterBody,
		element.Waterway, element.Park, element.Underground} {
		_, ok := StyleFor(cat)
		assert.True(t, ok, cat.String())
	}

	assert.Equal(t, `fill="none" stroke="red" stroke-width="20"`, styles[element.Underground].attrs())
	assert.Equal(t, `fill="lightgreen" stroke="none"`, styles[element.Park].attrs())
}
