package element

// A Ring is a chain of polylines where each polyline shares an endpoint with
// the next one. Reversed[i] is true if Lines[i] is traversed from its last to
// its first coordinate.
type Ring struct {
	Lines    []*Polyline
	Reversed []bool
}

// Append adds a polyline with the given traversal direction.
func (r *Ring) Append(line *Polyline, reversed bool) {
	r.Lines = append(r.Lines, line)
	r.Reversed = append(r.Reversed, reversed)
}

func (r *Ring) Len() int {
	return len(r.Lines)
}

func (r *Ring) ends(i int) (first, last Coord, ok bool) {
	line := r.Lines[i]
	first, ok = line.First()
	if !ok {
		return Coord{}, Coord{}, false
	}
	last, _ = line.Last()
	if r.Reversed[i] {
		first, last = last, first
	}
	return first, last, true
}

// Start returns the first coordinate of the traversed ring.
func (r *Ring) Start() (Coord, bool) {
	if len(r.Lines) == 0 {
		return Coord{}, false
	}
	start, _, ok := r.ends(0)
	return start, ok
}

// End returns the last coordinate of the traversed ring.
func (r *Ring) End() (Coord, bool) {
	if len(r.Lines) == 0 {
		return Coord{}, false
	}
	_, end, ok := r.ends(len(r.Lines) - 1)
	return end, ok
}

// IsClosed returns true if the far end of the last polyline equals the start
// of the first polyline.
func (r *Ring) IsClosed() bool {
	start, ok := r.Start()
	if !ok {
		return false
	}
	end, ok := r.End()
	if !ok {
		return false
	}
	if len(r.Lines) == 1 {
		return r.Lines[0].IsClosed()
	}
	return start == end
}

// IDs returns the IDs of all polylines in ring order.
func (r *Ring) IDs() []int64 {
	ids := make([]int64, len(r.Lines))
	for i, l := range r.Lines {
		ids[i] = l.ID
	}
	return ids
}

// Segments returns the coordinates of each polyline in traversal direction.
// The returned slices are copies.
func (r *Ring) Segments() [][]Coord {
	segments := make([][]Coord, len(r.Lines))
	for i, line := range r.Lines {
		seg := make([]Coord, len(line.Coords))
		copy(seg, line.Coords)
		if r.Reversed[i] {
			reverseCoords(seg)
		}
		segments[i] = seg
	}
	return segments
}

// Coords returns the continuous path of the ring. Joint coordinates shared by
// two consecutive polylines are only included once.
func (r *Ring) Coords() []Coord {
	var n int
	for _, l := range r.Lines {
		n += len(l.Coords)
	}
	path := make([]Coord, 0, n)
	for _, seg := range r.Segments() {
		if len(seg) == 0 {
			continue
		}
		if len(path) > 0 && path[len(path)-1] == seg[0] {
			seg = seg[1:]
		}
		path = append(path, seg...)
	}
	return path
}

func reverseCoords(coords []Coord) {
	for i, j := 0, len(coords)-1; i < j; i, j = i+1, j-1 {
		coords[i], coords[j] = coords[j], coords[i]
	}
}
