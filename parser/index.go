package parser

import "github.com/omniscale/osmrender/element"

// pointIndex stores the coordinates of all decoded points. It is frozen
// when the first line starts, all later lookups are read only.
type pointIndex struct {
	coords map[int64]element.Coord
	frozen bool
}

func newPointIndex() *pointIndex {
	return &pointIndex{coords: make(map[int64]element.Coord)}
}

func (idx *pointIndex) put(id int64, c element.Coord) {
	if idx.frozen {
		panic("put into frozen point index")
	}
	idx.coords[id] = c
}

func (idx *pointIndex) get(id int64) (element.Coord, bool) {
	c, ok := idx.coords[id]
	return c, ok
}

func (idx *pointIndex) freeze() { idx.frozen = true }

func (idx *pointIndex) len() int { return len(idx.coords) }

// lineIndex stores all decoded polylines. It is frozen when the first
// composite starts.
type lineIndex struct {
	lines  map[int64]*element.Polyline
	frozen bool
}

func newLineIndex() *lineIndex {
	return &lineIndex{lines: make(map[int64]*element.Polyline)}
}

func (idx *lineIndex) put(line *element.Polyline) {
	if idx.frozen {
		panic("put into frozen line index")
	}
	idx.lines[line.ID] = line
}

func (idx *lineIndex) get(id int64) (*element.Polyline, bool) {
	l, ok := idx.lines[id]
	return l, ok
}

func (idx *lineIndex) freeze() { idx.frozen = true }

func (idx *lineIndex) len() int { return len(idx.lines) }
