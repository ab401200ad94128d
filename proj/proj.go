package proj

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"

	"github.com/omniscale/osmrender/config"
	"github.com/omniscale/osmrender/element"
)

const pole = 6378137 * math.Pi // 20037508.342789244

func WgsToMerc(long, lat float64) (x, y float64) {
	x = long * pole / 180.0
	y = math.Log(math.Tan((90.0+lat)*math.Pi/360.0)) / math.Pi * pole
	return x, y
}

func MercToWgs(x, y float64) (long, lat float64) {
	long = 180.0 * x / pole
	lat = 180.0 / math.Pi * (2*math.Atan(math.Exp((y/pole)*math.Pi)) - math.Pi/2)
	return long, lat
}

// Projection transforms geographic coordinates to image pixels. The top left
// corner of the image is 0/0, y grows downwards.
type Projection interface {
	Project(c element.Coord) r2.Point
	Unproject(p r2.Point) element.Coord
	// Bounds returns the rect of the image in pixels.
	Bounds() r2.Rect
}

type frame struct {
	width, height float64
}

func (f frame) Bounds() r2.Rect {
	return r2.RectFromPoints(r2.Point{}, r2.Point{X: f.width, Y: f.height})
}

// Flat is a linear projection of degrees to pixels. It is only usable for
// small areas away from the poles.
type Flat struct {
	frame
	topLeft  element.Coord
	pxPerDeg float64
}

func NewFlat(topLeft element.Coord, pxPerDeg float64, width, height int) *Flat {
	return &Flat{
		frame:    frame{float64(width), float64(height)},
		topLeft:  topLeft,
		pxPerDeg: pxPerDeg,
	}
}

func (p *Flat) Project(c element.Coord) r2.Point {
	return r2.Point{
		X: (c.Long - p.topLeft.Long) * p.pxPerDeg,
		Y: -(c.Lat - p.topLeft.Lat) * p.pxPerDeg,
	}
}

func (p *Flat) Unproject(pt r2.Point) element.Coord {
	return element.Coord{
		Long: p.topLeft.Long + pt.X/p.pxPerDeg,
		Lat:  p.topLeft.Lat - pt.Y/p.pxPerDeg,
	}
}

// Mercator is a spherical mercator (EPSG:3857) projection. It is scaled so
// that one degree of longitude is pxPerDeg pixels wide.
type Mercator struct {
	frame
	origin r2.Point
	scale  float64
}

func NewMercator(topLeft element.Coord, pxPerDeg float64, width, height int) *Mercator {
	x, y := WgsToMerc(topLeft.Long, topLeft.Lat)
	degree := s1.Degree.Radians() * 6378137 // meters per degree at the equator
	return &Mercator{
		frame:  frame{float64(width), float64(height)},
		origin: r2.Point{X: x, Y: y},
		scale:  pxPerDeg / degree,
	}
}

func (p *Mercator) Project(c element.Coord) r2.Point {
	x, y := WgsToMerc(c.Long, c.Lat)
	return r2.Point{
		X: (x - p.origin.X) * p.scale,
		Y: -(y - p.origin.Y) * p.scale,
	}
}

func (p *Mercator) Unproject(pt r2.Point) element.Coord {
	long, lat := MercToWgs(p.origin.X+pt.X/p.scale, p.origin.Y-pt.Y/p.scale)
	return element.Coord{Long: long, Lat: lat}
}

// FromConfig returns the projection selected by conf.
func FromConfig(conf *config.Config) (Projection, error) {
	topLeft := element.Coord{Long: conf.TopLeftLon, Lat: conf.TopLeftLat}
	switch conf.Projection {
	case config.ProjectionFlat, "":
		return NewFlat(topLeft, conf.PxPerDeg, conf.WidthPx, conf.HeightPx), nil
	case config.ProjectionMercator:
		return NewMercator(topLeft, conf.PxPerDeg, conf.WidthPx, conf.HeightPx), nil
	}
	return nil, fmt.Errorf("unknown projection %q", conf.Projection)
}

// GeoBounds returns the geographic coordinates of the top left and bottom
// right corner of the image.
func GeoBounds(p Projection) (topLeft, bottomRight element.Coord) {
	b := p.Bounds()
	return p.Unproject(b.Lo()), p.Unproject(b.Hi())
}
