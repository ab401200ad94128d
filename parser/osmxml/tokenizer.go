// Package osmxml reads OSM XML files (.osm).
package osmxml

import (
	"encoding/xml"
	"io"
	"strconv"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"

	"github.com/omniscale/osmrender/parser"
)

var memberTypeValues = map[string]osm.MemberType{
	"node":     osm.NodeMember,
	"way":      osm.WayMember,
	"relation": osm.RelationMember,
}

// Tokenizer is a stream based tokenizer for OSM XML.
type Tokenizer struct {
	r   io.Reader
	dec *xml.Decoder
}

func New(r io.Reader) *Tokenizer {
	return &Tokenizer{r: r, dec: xml.NewDecoder(r)}
}

// Close closes the underlying reader, if it is an io.Closer.
func (t *Tokenizer) Close() error {
	if c, ok := t.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Next returns the next token. It returns io.EOF at the end of the document.
func (t *Tokenizer) Next() (parser.Token, error) {
NextToken:
	for {
		token, err := t.dec.Token()
		if err == io.EOF {
			return parser.Token{}, io.EOF
		}
		if err != nil {
			return parser.Token{}, errors.Wrap(err, "decoding next XML token")
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "node":
				node := parser.Token{Kind: parser.NodeStart}
				for _, attr := range tok.Attr {
					var err error
					switch attr.Name.Local {
					case "id":
						node.ID, err = strconv.ParseInt(attr.Value, 10, 64)
					case "lat":
						node.Lat, err = strconv.ParseFloat(attr.Value, 64)
					case "lon":
						node.Long, err = strconv.ParseFloat(attr.Value, 64)
					}
					if err != nil {
						return parser.Token{}, errors.Wrapf(err, "parsing %s of node", attr.Name.Local)
					}
				}
				return node, nil
			case "way":
				id, err := parseID(tok.Attr, "id")
				if err != nil {
					return parser.Token{}, errors.Wrap(err, "parsing way")
				}
				return parser.Token{Kind: parser.WayStart, ID: id}, nil
			case "relation":
				id, err := parseID(tok.Attr, "id")
				if err != nil {
					return parser.Token{}, errors.Wrap(err, "parsing relation")
				}
				return parser.Token{Kind: parser.RelationStart, ID: id}, nil
			case "nd":
				ref, err := parseID(tok.Attr, "ref")
				if err != nil {
					return parser.Token{}, errors.Wrap(err, "parsing nd")
				}
				return parser.Token{Kind: parser.NodeRef, ID: ref}, nil
			case "member":
				member := parser.Token{Kind: parser.Member}
				for _, attr := range tok.Attr {
					switch attr.Name.Local {
					case "type":
						var ok bool
						member.MemberType, ok = memberTypeValues[attr.Value]
						if !ok {
							// ignore unknown member types
							continue NextToken
						}
					case "role":
						member.Role = attr.Value
					case "ref":
						var err error
						member.ID, err = strconv.ParseInt(attr.Value, 10, 64)
						if err != nil {
							// ignore invalid ref
							continue NextToken
						}
					}
				}
				return member, nil
			case "tag":
				tag := parser.Token{Kind: parser.Tag}
				for _, attr := range tok.Attr {
					if attr.Name.Local == "k" {
						tag.Key = attr.Value
					} else if attr.Name.Local == "v" {
						tag.Value = attr.Value
					}
				}
				return tag, nil
			default:
				// osm, bounds, etc.
			}
		case xml.EndElement:
			switch tok.Name.Local {
			case "node":
				return parser.Token{Kind: parser.NodeEnd}, nil
			case "way":
				return parser.Token{Kind: parser.WayEnd}, nil
			case "relation":
				return parser.Token{Kind: parser.RelationEnd}, nil
			}
		}
	}
}

func parseID(attrs []xml.Attr, name string) (int64, error) {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return strconv.ParseInt(attr.Value, 10, 64)
		}
	}
	return 0, errors.Errorf("missing %s attribute", name)
}
