package geom

import (
	"errors"

	"github.com/omniscale/osmrender/element"
)

// ErrEmptyInput is returned when rings are requested for zero polylines.
var ErrEmptyInput = errors.New("no polylines to assemble")

// endpoints maps the first and last coordinate of each polyline to the
// indices of all polylines that start or end there, in input order.
// Degenerate polylines are not included.
type endpoints map[element.Coord][]int

func newEndpoints(lines []*element.Polyline) endpoints {
	ends := make(endpoints, len(lines)*2)
	for i, line := range lines {
		if line.IsDegenerate() {
			continue
		}
		first, _ := line.First()
		last, _ := line.Last()
		ends[first] = append(ends[first], i)
		ends[last] = append(ends[last], i)
	}
	return ends
}

type step struct {
	idx int
	// outward is true if the polyline is traversed from its last to its
	// first coordinate when walking away from the start polyline.
	outward bool
}

// Assemble orders polylines into rings. Each ring is a maximal chain of
// polylines where consecutive polylines share an endpoint. Every polyline is
// part of exactly one ring. The result only depends on the input order.
//
// A ring starts with the first unvisited polyline. It is extended at the
// last coordinate of that polyline first and then at the first coordinate
// until no unvisited polyline is connected. If more than two polylines share
// an endpoint, the first unvisited one in input order is picked, which can
// result in the wrong partition for such (invalid) input.
func Assemble(lines []*element.Polyline) ([]element.Ring, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	ends := newEndpoints(lines)
	visited := make([]bool, len(lines))
	var rings []element.Ring

	for start := range lines {
		if visited[start] {
			continue
		}
		visited[start] = true

		first, _ := lines[start].First()
		last, _ := lines[start].Last()
		tail := ends.follow(lines, visited, start, first)
		head := ends.follow(lines, visited, start, last)

		ring := element.Ring{}
		for i := len(head) - 1; i >= 0; i-- {
			ring.Append(lines[head[i].idx], !head[i].outward)
		}
		ring.Append(lines[start], false)
		for _, s := range tail {
			ring.Append(lines[s.idx], s.outward)
		}
		rings = append(rings, ring)
	}
	return rings, nil
}

// follow walks from lines[current] away from the link coordinate and marks
// all polylines on its way as visited.
func (ends endpoints) follow(lines []*element.Polyline, visited []bool, current int, link element.Coord) []step {
	var steps []step
	for {
		next, join, ok := ends.next(lines, visited, current, link)
		if !ok {
			return steps
		}
		first, _ := lines[next].First()
		steps = append(steps, step{idx: next, outward: first != join})
		visited[next] = true
		current, link = next, join
	}
}

// next returns the first unvisited polyline connected to the far end of
// lines[current], together with that far end coordinate. The far end is the
// endpoint that is not link.
func (ends endpoints) next(lines []*element.Polyline, visited []bool, current int, link element.Coord) (int, element.Coord, bool) {
	line := lines[current]
	if line.IsDegenerate() {
		return 0, element.Coord{}, false
	}
	first, _ := line.First()
	last, _ := line.Last()

	far := last
	if link != first {
		far = first
	}

	for _, candidate := range ends[far] {
		if candidate == current || visited[candidate] {
			continue
		}
		return candidate, far, true
	}
	return 0, element.Coord{}, false
}
