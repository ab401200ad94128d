package mapping

import (
	"strings"

	"github.com/omniscale/osmrender/element"
)

type Key string
type Value string

// AnyValue matches all values of a key.
const AnyValue = Value("__any__")

// valueSeparator separates multiple values of a single tag, e.g.
// railway=rail;subway.
const valueSeparator = ";"

type rule struct {
	category element.Category
	// fallback rules only apply if no other rule matched before.
	fallback bool
}

type categoryTable map[Key]map[Value]rule

var categories = categoryTable{
	"railway": {
		"rail":   {category: element.Railway},
		"subway": {category: element.Underground},
	},
	"highway": {
		AnyValue: {category: element.Highway},
	},
	"water": {
		AnyValue: {category: element.WaterBody},
	},
	"waterway": {
		AnyValue: {category: element.Waterway, fallback: true},
	},
	"building": {
		AnyValue: {category: element.Building},
	},
	"leisure": {
		"park": {category: element.Park},
	},
}

func (ct categoryTable) lookup(k, v string) (rule, bool) {
	values, ok := ct[Key(k)]
	if !ok {
		return rule{}, false
	}
	if r, ok := values[Value(v)]; ok {
		return r, true
	}
	r, ok := values[AnyValue]
	return r, ok
}

// Classify returns the category for the tags of a single feature.
//
// Tags are evaluated in order and a later match replaces the category of an
// earlier one. waterway=* is the exception: it is only used if nothing else
// matched so far, so that a lake which is also tagged as river stays a water
// body. Values with multiple entries (a;b) are evaluated one by one.
func Classify(tags element.Tags) element.Category {
	cat := element.Unknown
	for _, tag := range tags {
		if !strings.Contains(tag.Value, valueSeparator) {
			cat = categories.apply(cat, tag.Key, tag.Value)
			continue
		}
		for _, v := range strings.Split(tag.Value, valueSeparator) {
			cat = categories.apply(cat, tag.Key, strings.TrimSpace(v))
		}
	}
	return cat
}

func (ct categoryTable) apply(current element.Category, k, v string) element.Category {
	r, ok := ct.lookup(k, v)
	if !ok {
		return current
	}
	if r.fallback && current != element.Unknown {
		return current
	}
	return r.category
}

// IsSubwayStop returns true if the tags of a point mark a stop position of an
// underground line.
func IsSubwayStop(tags element.TagSet) bool {
	return tags.IsSubwayStop()
}
