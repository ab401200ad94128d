package writer

import (
	"fmt"
	"strings"

	"github.com/omniscale/osmrender/element"
)

// Style is the SVG presentation of a category. Layers with a lower Z are
// drawn first.
type Style struct {
	Z           int
	Fill        string
	Stroke      string
	StrokeWidth float64
}

func (s Style) attrs() string {
	var b strings.Builder
	fmt.Fprintf(&b, `fill="%s" stroke="%s"`, s.Fill, s.Stroke)
	if s.StrokeWidth > 0 {
		fmt.Fprintf(&b, ` stroke-width="%g"`, s.StrokeWidth)
	}
	return b.String()
}

var styles = map[element.Category]Style{
	element.WaterBody:   {Z: 0, Fill: "lightblue", Stroke: "none"},
	element.Waterway:    {Z: -1, Fill: "none", Stroke: "blue", StrokeWidth: 10},
	element.Railway:     {Z: 2, Fill: "none", Stroke: "grey", StrokeWidth: 10},
	element.Park:        {Z: -1, Fill: "lightgreen", Stroke: "none"},
	element.Building:    {Z: -1, Fill: "steelblue", Stroke: "none", StrokeWidth: 5},
	element.Underground: {Z: 2, Fill: "none", Stroke: "red", StrokeWidth: 20},
	element.Highway:     {Z: 3, Fill: "none", Stroke: "black", StrokeWidth: 10},
}

// StyleFor returns the style of a category. Unknown and Building are not
// rendered.
func StyleFor(cat element.Category) (Style, bool) {
	if cat == element.Unknown || cat == element.Building {
		return Style{}, false
	}
	s, ok := styles[cat]
	return s, ok
}

// subway stop marker
const (
	roundelZ    = 5
	roundelSize = 200
	roundelRed  = "#dc241f"
	roundelBlue = "#0019a8"
)
