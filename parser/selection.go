package parser

import "sort"

// IDSet is a set of OSM IDs.
type IDSet map[int64]struct{}

func NewIDSet(ids ...int64) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Add(id int64) {
	s[id] = struct{}{}
}

func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// IDs returns all IDs in ascending order.
func (s IDSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Selection limits the decoder to a subset of all elements. A nil set
// selects all elements of that type. Elements that are not selected are
// neither indexed nor returned.
type Selection struct {
	Points     IDSet
	Lines      IDSet
	Composites IDSet
}

// All is the selection of all elements.
var All = Selection{}

func (s Selection) point(id int64) bool {
	return s.Points == nil || s.Points.Has(id)
}

func (s Selection) line(id int64) bool {
	return s.Lines == nil || s.Lines.Has(id)
}

func (s Selection) composite(id int64) bool {
	return s.Composites == nil || s.Composites.Has(id)
}

// IsAll returns true if no element type is restricted.
func (s Selection) IsAll() bool {
	return s.Points == nil && s.Lines == nil && s.Composites == nil
}
