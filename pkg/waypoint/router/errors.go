package router

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPresenter indicates a node was built without a presenter.
	ErrNoPresenter = errors.New("node has no presenter")

	// ErrNoContainer indicates a presenter could not provide a container.
	ErrNoContainer = errors.New("presenter returned no container")

	// ErrEmptyID indicates a node was built with an empty id.
	ErrEmptyID = errors.New("node id is empty")

	// ErrDuplicateID indicates two different nodes share an id.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrNilRoot indicates a tree was validated without a root node.
	ErrNilRoot = errors.New("tree has no root")
)

// ContractError reports a presenter that broke its contract while effects
// were applied. The affected branch is skipped; the dispatch still completes.
type ContractError struct {
	Op     string // Effect being applied (e.g., "container", "dismiss_modal")
	NodeID string // Node whose presenter misbehaved
	Err    error  // Underlying error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("router: %s on %q: %v", e.Op, e.NodeID, e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// IsContractError checks if an error is a presenter contract violation.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}
