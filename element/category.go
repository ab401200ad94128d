package element

import "fmt"

// Category is the semantic class of a feature, derived from its tags.
type Category int

const (
	Unknown Category = iota
	Railway
	Highway
	WaterBody
	Waterway
	Park
	Building
	Underground
)

var categoryNames = [...]string{
	Unknown:     "unknown",
	Railway:     "railway",
	Highway:     "highway",
	WaterBody:   "water_body",
	Waterway:    "waterway",
	Park:        "park",
	Building:    "building",
	Underground: "underground",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Categories returns all categories in declaration order.
func Categories() []Category {
	cats := make([]Category, len(categoryNames))
	for i := range categoryNames {
		cats[i] = Category(i)
	}
	return cats
}

func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown category %q", s)
}
