package parser

import (
	"fmt"

	osm "github.com/omniscale/go-osm"
)

type TokenKind int

const (
	NodeStart TokenKind = iota + 1
	NodeEnd
	WayStart
	WayEnd
	RelationStart
	RelationEnd
	// NodeRef is a node reference of the current way.
	NodeRef
	// Member is a member of the current relation.
	Member
	// Tag is a tag of the current node, way or relation.
	Tag
)

var tokenKindNames = map[TokenKind]string{
	NodeStart:     "node start",
	NodeEnd:       "node end",
	WayStart:      "way start",
	WayEnd:        "way end",
	RelationStart: "relation start",
	RelationEnd:   "relation end",
	NodeRef:       "node ref",
	Member:        "member",
	Tag:           "tag",
}

func (k TokenKind) String() string {
	if n, ok := tokenKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Token is a single event of an OSM element stream. Elements are sent depth
// first: a start token, the tokens of all children and the end token.
//
// ID is the element ID for start and end tokens and the referenced ID for
// NodeRef and Member tokens. Long and Lat are only set for NodeStart.
type Token struct {
	Kind       TokenKind
	ID         int64
	Long       float64
	Lat        float64
	MemberType osm.MemberType
	Role       string
	Key        string
	Value      string
}

// Tokenizer returns the tokens of an OSM file in file order. Next returns
// io.EOF after the last token.
type Tokenizer interface {
	Next() (Token, error)
}
