package element

type Kind int

const (
	PointKind Kind = iota
	LineKind
	CompositeKind
)

func (k Kind) String() string {
	switch k {
	case PointKind:
		return "point"
	case LineKind:
		return "line"
	case CompositeKind:
		return "composite"
	}
	return "invalid"
}

// Feature is a decoded and classified entity. It is one of *PointFeature,
// *LineFeature or *CompositeFeature.
type Feature interface {
	Kind() Kind
	FeatureID() int64
}

// PointFeature is a point with the tags that were set on it.
type PointFeature struct {
	Point
	Tags TagSet
}

func (*PointFeature) Kind() Kind         { return PointKind }
func (f *PointFeature) FeatureID() int64 { return f.ID }

type LineFeature struct {
	*Polyline
	Category Category
}

func (*LineFeature) Kind() Kind         { return LineKind }
func (f *LineFeature) FeatureID() int64 { return f.ID }

// CompositeFeature is a composite with its members ordered into rings. Rings
// can be nil if ring assembly was deferred by the decoder.
type CompositeFeature struct {
	*Composite
	Rings    []Ring
	Category Category
}

func (*CompositeFeature) Kind() Kind         { return CompositeKind }
func (f *CompositeFeature) FeatureID() int64 { return f.ID }

// Collection holds the features of a decoded input, grouped by kind and in
// file order.
type Collection struct {
	Points     []*PointFeature
	Lines      []*LineFeature
	Composites []*CompositeFeature
}

// Add appends f to the matching list.
func (c *Collection) Add(f Feature) {
	switch f := f.(type) {
	case *PointFeature:
		c.Points = append(c.Points, f)
	case *LineFeature:
		c.Lines = append(c.Lines, f)
	case *CompositeFeature:
		c.Composites = append(c.Composites, f)
	}
}

func (c *Collection) Len() int {
	return len(c.Points) + len(c.Lines) + len(c.Composites)
}

// Features returns all features: points, then lines, then composites.
func (c *Collection) Features() []Feature {
	fs := make([]Feature, 0, c.Len())
	for _, f := range c.Points {
		fs = append(fs, f)
	}
	for _, f := range c.Lines {
		fs = append(fs, f)
	}
	for _, f := range c.Composites {
		fs = append(fs, f)
	}
	return fs
}
