package parser

import (
	"fmt"

	"github.com/omniscale/osmrender/element"
)

// OrderViolationError is returned when the input is not ordered by type
// (nodes, then ways, then relations).
type OrderViolationError struct {
	Kind  element.Kind
	ID    int64
	Phase Phase
}

func (e *OrderViolationError) Error() string {
	return fmt.Sprintf("%s %d found while %s: input is not ordered by type", e.Kind, e.ID, e.Phase)
}

// UnresolvedReferenceError is returned when a line references a point that
// was not decoded before.
type UnresolvedReferenceError struct {
	LineID  int64
	PointID int64
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("line %d references unknown point %d", e.LineID, e.PointID)
}
