package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagSet(t *testing.T) {
	ts := TagSet{}
	ts.Add("railway", "stop")
	ts.Add("subway", "yes")
	assert.True(t, ts.Has("railway", "stop"))
	assert.False(t, ts.Has("railway", "rail"))
	assert.False(t, ts.IsSubwayStop())

	ts.Add("public_transport", "stop_position")
	assert.True(t, ts.IsSubwayStop())

	ts.Clear()
	assert.Empty(t, ts)
	assert.False(t, ts.IsSubwayStop())
}

func TestTagsGet(t *testing.T) {
	tags := Tags{{"highway", "primary"}, {"name", "A"}, {"highway", "secondary"}}
	v, ok := tags.Get("highway")
	assert.True(t, ok)
	assert.Equal(t, "secondary", v)

	_, ok = tags.Get("building")
	assert.False(t, ok)
}

func TestPolyline(t *testing.T) {
	p := &Polyline{ID: 1}
	assert.True(t, p.IsDegenerate())
	_, ok := p.First()
	assert.False(t, ok)

	p.Coords = []Coord{{0, 0}}
	assert.True(t, p.IsDegenerate())
	assert.False(t, p.IsClosed())

	p.Coords = []Coord{{0, 0}, {1, 1}, {0, 0}}
	assert.False(t, p.IsDegenerate())
	assert.True(t, p.IsClosed())
	first, _ := p.First()
	last, _ := p.Last()
	assert.Equal(t, first, last)
}

func TestCategory(t *testing.T) {
	for _, c := range Categories() {
		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	_, err := ParseCategory("forest")
	assert.Error(t, err)
	assert.Equal(t, "category(42)", Category(42).String())
}

func TestRingCoords(t *testing.T) {
	a := &Polyline{ID: 1, Coords: []Coord{{0, 0}, {1, 0}, {1, 1}}}
	b := &Polyline{ID: 2, Coords: []Coord{{0, 0}, {0, 1}, {1, 1}}}

	r := Ring{}
	r.Append(a, false)
	r.Append(b, true)

	assert.Equal(t, []int64{1, 2}, r.IDs())
	assert.True(t, r.IsClosed())
	assert.Equal(t,
		[]Coord{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
		r.Coords(),
	)

	segs := r.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, []Coord{{1, 1}, {0, 1}, {0, 0}}, segs[1])
	// segments are copies
	assert.Equal(t, Coord{0, 0}, b.Coords[0])
}

func TestRingOpen(t *testing.T) {
	r := Ring{}
	r.Append(&Polyline{ID: 1, Coords: []Coord{{0, 0}, {1, 0}}}, false)
	r.Append(&Polyline{ID: 2, Coords: []Coord{{2, 0}, {1, 0}}}, true)
	assert.False(t, r.IsClosed())
	end, ok := r.End()
	assert.True(t, ok)
	assert.Equal(t, Coord{2, 0}, end)
}

func TestRingSingleton(t *testing.T) {
	r := Ring{}
	r.Append(&Polyline{ID: 1, Coords: []Coord{{0, 0}, {1, 0}, {0, 0}}}, false)
	assert.True(t, r.IsClosed())

	r = Ring{}
	r.Append(&Polyline{ID: 2, Coords: []Coord{{0, 0}}}, false)
	assert.False(t, r.IsClosed())

	r = Ring{}
	r.Append(&Polyline{ID: 3}, false)
	assert.False(t, r.IsClosed())
	assert.Empty(t, r.Coords())
}
