package element

import (
	"fmt"
	"strings"
)

// A Coord is a WGS84 longitude/latitude pair. Coords are compared by value and
// are used as map keys for endpoint matching.
type Coord struct {
	Long float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%g %g)", c.Long, c.Lat)
}

// A Point is a single identified coordinate.
type Point struct {
	ID   int64   `json:"id"`
	Long float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

func (p Point) Coord() Coord {
	return Coord{Long: p.Long, Lat: p.Lat}
}

// A Polyline is an ordered list of coordinates resolved from point
// references. Refs keeps the referenced point IDs in the same order.
// Polylines are not modified once the decoder emitted them.
type Polyline struct {
	ID     int64   `json:"id"`
	Refs   []int64 `json:"refs,omitempty"`
	Coords []Coord `json:"coords"`
}

// IsDegenerate returns true if the polyline has less than two coordinates and
// can neither be drawn as a line nor as a ring.
func (p *Polyline) IsDegenerate() bool {
	return len(p.Coords) < 2
}

// IsClosed returns whether the first and last coordinates are identical.
func (p *Polyline) IsClosed() bool {
	return len(p.Coords) >= 2 && p.Coords[0] == p.Coords[len(p.Coords)-1]
}

// First returns the first coordinate. ok is false for empty polylines.
func (p *Polyline) First() (c Coord, ok bool) {
	if len(p.Coords) == 0 {
		return Coord{}, false
	}
	return p.Coords[0], true
}

// Last returns the last coordinate. ok is false for empty polylines.
func (p *Polyline) Last() (c Coord, ok bool) {
	if len(p.Coords) == 0 {
		return Coord{}, false
	}
	return p.Coords[len(p.Coords)-1], true
}

// A Composite is a feature made of multiple polylines (and optionally points),
// e.g. a lake or a park mapped as multipolygon relation.
type Composite struct {
	ID      int64       `json:"id"`
	Members []*Polyline `json:"members"`
	Points  []Point     `json:"points,omitempty"`
}

type Tag struct {
	Key   string
	Value string
}

// Tags is an ordered list of key/value pairs. The order is the order in which
// the tags appeared in the source.
type Tags []Tag

func (t Tags) String() string {
	parts := make([]string, len(t))
	for i, tag := range t {
		parts[i] = tag.Key + "=" + tag.Value
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Get returns the value of the last tag with key k.
func (t Tags) Get(k string) (string, bool) {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Key == k {
			return t[i].Value, true
		}
	}
	return "", false
}

// A TagSet is an unordered collection of "key:value" strings. It only
// supports membership tests.
type TagSet map[string]struct{}

func tagSetKey(k, v string) string {
	return k + ":" + v
}

func (ts TagSet) Add(k, v string) {
	ts[tagSetKey(k, v)] = struct{}{}
}

func (ts TagSet) Has(k, v string) bool {
	_, ok := ts[tagSetKey(k, v)]
	return ok
}

func (ts TagSet) Clear() {
	for k := range ts {
		delete(ts, k)
	}
}

// IsSubwayStop returns true for stop positions of underground lines.
func (ts TagSet) IsSubwayStop() bool {
	return ts.Has("railway", "stop") &&
		ts.Has("subway", "yes") &&
		ts.Has("public_transport", "stop_position")
}
