package router

import (
	"errors"
	"fmt"
)

// Index maps node ids to the nodes of a validated tree.
type Index struct {
	nodes  map[string]Node
	order  []string
	parent map[string]int // number of edges leading to each node
}

// Lookup returns the node registered under id.
func (ix *Index) Lookup(id string) (Node, bool) {
	n, ok := ix.nodes[id]
	return n, ok
}

// Len returns the number of distinct nodes.
func (ix *Index) Len() int {
	return len(ix.nodes)
}

// IDs returns node ids in depth-first discovery order.
func (ix *Index) IDs() []string {
	return append([]string(nil), ix.order...)
}

// Shared returns the ids of nodes reachable through more than one edge, in
// discovery order. Sharing is allowed; a shared node that reaches itself is a
// cycle and is resolved with a bounded traversal.
func (ix *Index) Shared() []string {
	var out []string
	for _, id := range ix.order {
		if ix.parent[id] > 1 {
			out = append(out, id)
		}
	}
	return out
}

// Validate walks the tree from root and checks that every node has a
// non-empty id, a presenter, and that no two distinct nodes share an id.
// All problems found are joined into the returned error.
func Validate(root Node) (*Index, error) {
	ix := &Index{
		nodes:  make(map[string]Node),
		parent: make(map[string]int),
	}
	if root == nil {
		return ix, fmt.Errorf("router: validate: %w", ErrNilRoot)
	}

	var errs []error
	var walk func(n Node)
	walk = func(n Node) {
		id := n.ID()
		if id == "" {
			errs = append(errs, fmt.Errorf("router: %s node: %w", n.Kind(), ErrEmptyID))
			return
		}
		if seen, ok := ix.nodes[id]; ok {
			if seen != n {
				errs = append(errs, fmt.Errorf("router: node %q: %w", id, ErrDuplicateID))
			}
			return
		}
		ix.nodes[id] = n
		ix.order = append(ix.order, id)
		if n.Presenter() == nil {
			errs = append(errs, &ContractError{Op: "validate", NodeID: id, Err: ErrNoPresenter})
		}
		for _, child := range n.Edges() {
			if child == nil {
				continue
			}
			ix.parent[child.ID()]++
			walk(child)
		}
	}
	walk(root)

	return ix, errors.Join(errs...)
}
