package tree

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTree        = errors.New("tree defines no nodes")
	ErrDuplicateID      = errors.New("node id defined twice")
	ErrUnknownKind      = errors.New("unknown node kind")
	ErrUnknownPresenter = errors.New("no presenter registered")
	ErrUnknownNode      = errors.New("reference to undefined node")
	ErrInvalidEdge      = errors.New("edge not allowed for node kind")
	ErrUnknownFormat    = errors.New("unknown definition format")
)

// DefinitionError describes a problem with one node of a tree definition.
type DefinitionError struct {
	Node  string
	Field string
	Err   error
}

func (e *DefinitionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("tree: node %q: %v", e.Node, e.Err)
	}
	return fmt.Sprintf("tree: node %q: %s: %v", e.Node, e.Field, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// IsDefinitionError reports whether err contains a *DefinitionError.
func IsDefinitionError(err error) bool {
	var de *DefinitionError
	return errors.As(err, &de)
}
