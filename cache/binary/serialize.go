// Package binary serializes decoded collections for the query cache.
//
// All integers are varints, IDs are zigzag encoded and delta packed within
// each list. Coordinates are stored as fixed64 float bits, so loaded
// coordinates compare equal to the decoded ones. Composite members point
// to the lines of the same collection and rings are not stored.
package binary

import (
	"math"
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/omniscale/osmrender/element"
)

const formatVersion = 1

// Marshal serializes c. All composite members need to be lines of c.
func Marshal(c *element.Collection) ([]byte, error) {
	buf := proto.NewBuffer(nil)
	buf.EncodeVarint(formatVersion)

	ids := make([]int64, len(c.Points))
	for i, p := range c.Points {
		ids[i] = p.ID
	}
	encodeIDs(buf, ids)
	for _, p := range c.Points {
		encodeCoord(buf, p.Long, p.Lat)
		tags := make([]string, 0, len(p.Tags))
		for t := range p.Tags {
			tags = append(tags, t)
		}
		sort.Strings(tags)
		buf.EncodeVarint(uint64(len(tags)))
		for _, t := range tags {
			buf.EncodeStringBytes(encodeTag(t))
		}
	}

	lineIdx := make(map[*element.Polyline]int, len(c.Lines))
	ids = make([]int64, len(c.Lines))
	for i, l := range c.Lines {
		ids[i] = l.ID
		lineIdx[l.Polyline] = i
	}
	encodeIDs(buf, ids)
	for _, l := range c.Lines {
		buf.EncodeVarint(uint64(l.Category))
		encodeIDs(buf, l.Refs)
		buf.EncodeVarint(uint64(len(l.Coords)))
		for _, coord := range l.Coords {
			encodeCoord(buf, coord.Long, coord.Lat)
		}
	}

	ids = make([]int64, len(c.Composites))
	for i, comp := range c.Composites {
		ids[i] = comp.ID
	}
	encodeIDs(buf, ids)
	for _, comp := range c.Composites {
		buf.EncodeVarint(uint64(comp.Category))
		buf.EncodeVarint(uint64(len(comp.Members)))
		for _, m := range comp.Members {
			idx, ok := lineIdx[m]
			if !ok {
				return nil, errors.Errorf("member %d of composite %d is not part of the collection", m.ID, comp.ID)
			}
			buf.EncodeVarint(uint64(idx))
		}
		ids = make([]int64, len(comp.Points))
		for i, p := range comp.Points {
			ids[i] = p.ID
		}
		encodeIDs(buf, ids)
		for _, p := range comp.Points {
			encodeCoord(buf, p.Long, p.Lat)
		}
	}
	return buf.Bytes(), nil
}

// Unmarshal returns the collection serialized in data. Composites are
// returned without rings.
func Unmarshal(data []byte) (*element.Collection, error) {
	d := &decoder{buf: proto.NewBuffer(data), size: len(data)}
	v := d.varint()
	if d.err != nil {
		return nil, errors.Wrap(d.err, "unmarshal format version")
	}
	if v != formatVersion {
		return nil, errors.Errorf("unsupported cache format version %d", v)
	}

	c := &element.Collection{}
	ids := d.ids()
	c.Points = make([]*element.PointFeature, 0, len(ids))
	for _, id := range ids {
		f := &element.PointFeature{Point: element.Point{ID: id}}
		f.Long, f.Lat = d.coord()
		if n := d.length(); n > 0 {
			f.Tags = make(element.TagSet, n)
			for i := 0; i < n; i++ {
				addTagSet(f.Tags, decodeTag(d.string()))
			}
		}
		if d.err != nil {
			return nil, d.wrap("point", id)
		}
		c.Points = append(c.Points, f)
	}

	ids = d.ids()
	c.Lines = make([]*element.LineFeature, 0, len(ids))
	for _, id := range ids {
		f := &element.LineFeature{Polyline: &element.Polyline{ID: id}}
		f.Category = element.Category(d.varint())
		f.Refs = d.ids()
		if n := d.length(); n > 0 {
			f.Coords = make([]element.Coord, n)
			for i := range f.Coords {
				f.Coords[i].Long, f.Coords[i].Lat = d.coord()
			}
		}
		if d.err != nil {
			return nil, d.wrap("line", id)
		}
		c.Lines = append(c.Lines, f)
	}

	ids = d.ids()
	c.Composites = make([]*element.CompositeFeature, 0, len(ids))
	for _, id := range ids {
		f := &element.CompositeFeature{Composite: &element.Composite{ID: id}}
		f.Category = element.Category(d.varint())
		n := d.length()
		f.Members = make([]*element.Polyline, 0, n)
		for i := 0; i < n && d.err == nil; i++ {
			idx := d.length()
			if d.err != nil {
				break
			}
			if idx >= len(c.Lines) {
				return nil, errors.Errorf("composite %d references line #%d of %d", id, idx, len(c.Lines))
			}
			f.Members = append(f.Members, c.Lines[idx].Polyline)
		}
		if ptIDs := d.ids(); len(ptIDs) > 0 {
			f.Points = make([]element.Point, len(ptIDs))
			for i, ptID := range ptIDs {
				f.Points[i].ID = ptID
				f.Points[i].Long, f.Points[i].Lat = d.coord()
			}
		}
		if d.err != nil {
			return nil, d.wrap("composite", id)
		}
		c.Composites = append(c.Composites, f)
	}
	if d.err != nil {
		return nil, errors.Wrap(d.err, "unmarshal collection")
	}
	return c, nil
}

func encodeCoord(buf *proto.Buffer, long, lat float64) {
	buf.EncodeFixed64(math.Float64bits(long))
	buf.EncodeFixed64(math.Float64bits(lat))
}

func encodeIDs(buf *proto.Buffer, ids []int64) {
	buf.EncodeVarint(uint64(len(ids)))
	packed := make([]int64, len(ids))
	copy(packed, ids)
	deltaPack(packed)
	for _, id := range packed {
		buf.EncodeZigzag64(uint64(id))
	}
}

// decoder keeps the first error. All reads after an error return zero
// values.
type decoder struct {
	buf  *proto.Buffer
	size int
	err  error
}

func (d *decoder) wrap(kind string, id int64) error {
	return errors.Wrapf(d.err, "unmarshal %s %d", kind, id)
}

func (d *decoder) varint() uint64 {
	if d.err != nil {
		return 0
	}
	var v uint64
	v, d.err = d.buf.DecodeVarint()
	return v
}

// length reads a varint that is used as a length or index. Each element
// takes at least one byte, so lengths are limited by the data size.
func (d *decoder) length() int {
	v := d.varint()
	if d.err == nil && v > uint64(d.size) {
		d.err = errors.Errorf("invalid length %d", v)
		return 0
	}
	return int(v)
}

func (d *decoder) string() string {
	if d.err != nil {
		return ""
	}
	var s string
	s, d.err = d.buf.DecodeStringBytes()
	return s
}

func (d *decoder) coord() (long, lat float64) {
	if d.err != nil {
		return 0, 0
	}
	var l, la uint64
	if l, d.err = d.buf.DecodeFixed64(); d.err != nil {
		return 0, 0
	}
	if la, d.err = d.buf.DecodeFixed64(); d.err != nil {
		return 0, 0
	}
	return math.Float64frombits(l), math.Float64frombits(la)
}

func (d *decoder) ids() []int64 {
	n := d.length()
	if d.err != nil || n == 0 {
		return nil
	}
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.buf.DecodeZigzag64()
		if err != nil {
			d.err = err
			return nil
		}
		ids = append(ids, int64(v))
	}
	deltaUnpack(ids)
	return ids
}

func deltaPack(data []int64) {
	if len(data) < 2 {
		return
	}
	lastVal := data[0]
	for i := 1; i < len(data); i++ {
		data[i], lastVal = data[i]-lastVal, data[i]
	}
}

func deltaUnpack(data []int64) {
	if len(data) < 2 {
		return
	}
	for i := 1; i < len(data); i++ {
		data[i] = data[i] + data[i-1]
	}
}
