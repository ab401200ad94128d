package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniscale/osmrender/element"
)

func testCollection() *element.Collection {
	stop := element.TagSet{}
	stop.Add("railway", "stop")
	stop.Add("subway", "yes")
	stop.Add("public_transport", "stop_position")
	stop.Add("name", "Bank")

	a := &element.Polyline{ID: 100, Refs: []int64{1, 2, 3},
		Coords: []element.Coord{{Long: -0.1, Lat: 51.5}, {Long: -0.2, Lat: 51.6}, {Long: 0.123456789, Lat: 51.7}}}
	b := &element.Polyline{ID: 90, Refs: []int64{3, 1},
		Coords: []element.Coord{{Long: 0.123456789, Lat: 51.7}, {Long: -0.1, Lat: 51.5}}}

	return &element.Collection{
		Points: []*element.PointFeature{
			{Point: element.Point{ID: 1, Long: -0.1, Lat: 51.5}},
			{Point: element.Point{ID: -5, Long: 1e-9, Lat: -89.999}, Tags: stop},
		},
		Lines: []*element.LineFeature{
			{Polyline: a, Category: element.Highway},
			{Polyline: b, Category: element.Waterway},
		},
		Composites: []*element.CompositeFeature{
			{
				Composite: &element.Composite{ID: 7, Members: []*element.Polyline{b, a},
					Points: []element.Point{{ID: 1, Long: -0.1, Lat: 51.5}}},
				Category: element.WaterBody,
				Rings:    []element.Ring{{Lines: []*element.Polyline{a, b}, Reversed: []bool{false, false}}},
			},
		},
	}
}

func TestMarshalCollection(t *testing.T) {
	c := testCollection()
	data, err := Marshal(c)
	require.NoError(t, err)

	c2, err := Unmarshal(data)
	require.NoError(t, err)

	require.Len(t, c2.Points, 2)
	assert.Equal(t, c.Points[0].Point, c2.Points[0].Point)
	assert.Nil(t, c2.Points[0].Tags)
	assert.Equal(t, c.Points[1].Point, c2.Points[1].Point)
	assert.Equal(t, c.Points[1].Tags, c2.Points[1].Tags)
	assert.True(t, c2.Points[1].Tags.IsSubwayStop())

	require.Len(t, c2.Lines, 2)
	for i := range c.Lines {
		assert.Equal(t, c.Lines[i].Category, c2.Lines[i].Category)
		assert.Equal(t, *c.Lines[i].Polyline, *c2.Lines[i].Polyline)
	}

	require.Len(t, c2.Composites, 1)
	comp := c2.Composites[0]
	assert.Equal(t, int64(7), comp.ID)
	assert.Equal(t, element.WaterBody, comp.Category)
	assert.Equal(t, c.Composites[0].Points, comp.Points)
	assert.Nil(t, comp.Rings)
	// members share the polylines of the lines
	require.Len(t, comp.Members, 2)
	assert.True(t, comp.Members[0] == c2.Lines[1].Polyline)
	assert.True(t, comp.Members[1] == c2.Lines[0].Polyline)
}

func TestMarshalEmpty(t *testing.T) {
	data, err := Marshal(&element.Collection{})
	require.NoError(t, err)
	c, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestMarshalForeignMember(t *testing.T) {
	c := &element.Collection{Composites: []*element.CompositeFeature{
		{Composite: &element.Composite{ID: 1, Members: []*element.Polyline{{ID: 2}}}},
	}}
	_, err := Marshal(c)
	assert.Error(t, err)
}

func TestUnmarshalTruncated(t *testing.T) {
	data, err := Marshal(testCollection())
	require.NoError(t, err)

	_, err = Unmarshal(nil)
	assert.Error(t, err)

	for _, n := range []int{1, 5, len(data) / 2, len(data) - 1} {
		_, err = Unmarshal(data[:n])
		assert.Error(t, err, "truncated to %d bytes", n)
	}
}

func TestUnmarshalVersion(t *testing.T) {
	_, err := Unmarshal([]byte{2, 0, 0, 0})
	assert.Error(t, err)
}

func TestDeltaPack(t *testing.T) {
	ids := []int64{5, 7, 3, 3, 100}
	deltaPack(ids)
	assert.Equal(t, []int64{5, 2, -4, 0, 97}, ids)
	deltaUnpack(ids)
	assert.Equal(t, []int64{5, 7, 3, 3, 100}, ids)
}

func TestTagCodePoints(t *testing.T) {
	// codepoints should never change, so check a few for sanity
	assert.Equal(t, codepoint('\uE000'), tagToCodePoint["railway:stop"])
	assert.Equal(t, codepoint('\uE002'), tagToCodePoint["public_transport:stop_position"])

	for _, tag := range []string{
		"railway:stop",
		"name:Bank",
		"\uE000:escaped",
		"\ufffdreplacement:char",
		"",
	} {
		assert.Equal(t, tag, decodeTag(encodeTag(tag)), tag)
	}
	assert.Equal(t, "\uE000", encodeTag("railway:stop"))
}
