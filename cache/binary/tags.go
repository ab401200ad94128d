package binary

// Point tags are stored as "key:value" strings. Tags that are relevant for
// rendering are encoded as a single unicode char from the Unicode Private
// Use Area (U+E000 to U+F8FF), which takes three bytes in UTF-8.
//
// For example: public_transport:stop_position needs 3 bytes instead of 30.

import (
	"unicode/utf8"

	"github.com/omniscale/osmrender/element"
)

type codepoint rune

var tagToCodePoint = map[string]codepoint{}
var codePointToTag = map[codepoint]string{}

const minCodePoint = codepoint('\uE000')
const maxCodePoint = codepoint('\uF8FF')

var nextCodePoint = minCodePoint

const escapeRune = '\ufffd' // unicode replacement char

func addTagCodePoint(key, value string) {
	if nextCodePoint > maxCodePoint {
		panic("all codepoints used!")
	}
	tag := key + ":" + value
	if _, ok := tagToCodePoint[tag]; ok {
		panic("duplicate entry for tag codepoints: " + tag)
	}
	tagToCodePoint[tag] = nextCodePoint
	codePointToTag[nextCodePoint] = tag
	nextCodePoint++
}

func encodeTag(tag string) string {
	if c, ok := tagToCodePoint[tag]; ok {
		return string(rune(c))
	}
	// escape tags that start with a codepoint
	if r, size := utf8.DecodeRuneInString(tag); size >= 3 &&
		((codepoint(r) >= minCodePoint && codepoint(r) <= maxCodePoint) || r == escapeRune) {
		return string(escapeRune) + tag
	}
	return tag
}

func decodeTag(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size < 3 {
		return s
	}
	if r == escapeRune {
		return s[size:]
	}
	if codepoint(r) >= minCodePoint && codepoint(r) < nextCodePoint && size == len(s) {
		if tag, ok := codePointToTag[codepoint(r)]; ok {
			return tag
		}
	}
	return s
}

// addTagSet inserts an encoded tag into ts without splitting it into key
// and value again.
func addTagSet(ts element.TagSet, tag string) {
	ts[tag] = struct{}{}
}

func init() {
	//
	// DO NOT EDIT, REMOVE, REORDER ANY OF THE FOLLOWING LINES!
	//
	addTagCodePoint("railway", "stop")
	addTagCodePoint("subway", "yes")
	addTagCodePoint("public_transport", "stop_position")
	addTagCodePoint("railway", "station")
	addTagCodePoint("railway", "subway_entrance")
	addTagCodePoint("public_transport", "station")
	addTagCodePoint("public_transport", "platform")
	addTagCodePoint("highway", "bus_stop")
	addTagCodePoint("highway", "traffic_signals")
	addTagCodePoint("highway", "crossing")
	addTagCodePoint("train", "yes")
	addTagCodePoint("bus", "yes")
	addTagCodePoint("light_rail", "yes")
	addTagCodePoint("railway", "level_crossing")
	addTagCodePoint("natural", "tree")
	addTagCodePoint("entrance", "yes")
}
