package router

// Kind identifies which composition rule a Node follows.
type Kind int

const (
	KindEndpoint Kind = iota
	KindStack
	KindFork
	KindSwitcher
)

func (k Kind) String() string {
	switch k {
	case KindEndpoint:
		return "endpoint"
	case KindStack:
		return "stack"
	case KindFork:
		return "fork"
	case KindSwitcher:
		return "switcher"
	default:
		return "unknown"
	}
}

// Filter restricts which Endpoints may match a request by themselves.
// A nil Filter allows every node.
type Filter func(n Node) bool

// Excluding returns a Filter that rejects the node with the given id.
func Excluding(id string) Filter {
	return func(n Node) bool { return n.ID() != id }
}

// Only returns a Filter that accepts only the node with the given id.
func Only(id string) Filter {
	return func(n Node) bool { return n.ID() == id }
}

// Node is one element of the static navigation tree. The four implementations
// are *Endpoint, *Stack, *Fork and *Switcher.
//
// Nodes are built once and never change afterwards; what is currently
// presented lives in the Chain held by the Store.
type Node interface {
	// ID is the caller-assigned identity used for diffing and cycle detection.
	ID() string
	Kind() Kind
	Presenter() Presenter

	// ShouldHandle reports whether this node or anything reachable from it
	// would match req under filter.
	ShouldHandle(req Request, filter Filter) bool

	// ShouldHandleExclusively reports whether the node's own route matches
	// req (a Stack asks its first member).
	ShouldHandleExclusively(req Request) bool

	// Resolve appends the nodes req activates below this one to prefix.
	Resolve(prefix Chain, p *Pass) Chain

	// Edges lists every node reachable through a single edge, in order.
	Edges() []Node

	handles(p *Pass) bool
	apply(ancestry []Node, flags Flags, a *applier)
}

// Pass carries the state of one traversal of the tree: the request, the
// identity filter, the set of nodes already expanded and a memo of match
// results. A Pass must not be shared between traversals with different
// requests or filters.
type Pass struct {
	Request Request
	Filter  Filter

	visited   map[string]struct{}
	memo      map[string]bool
	pending   map[string]struct{}
	revisited []string
}

// NewPass starts a traversal for req.
func NewPass(req Request, filter Filter) *Pass {
	return &Pass{
		Request: req,
		Filter:  filter,
		visited: make(map[string]struct{}),
		memo:    make(map[string]bool),
		pending: make(map[string]struct{}),
	}
}

// Revisited lists the ids of nodes the traversal reached more than once.
// A non-empty result means the tree contains a cycle.
func (p *Pass) Revisited() []string {
	return p.revisited
}

func (p *Pass) allows(n Node) bool {
	return p.Filter == nil || p.Filter(n)
}

// enter marks n as expanded. It returns false when n was already expanded in
// this pass, in which case the caller must not descend again.
func (p *Pass) enter(n Node) bool {
	if _, ok := p.visited[n.ID()]; ok {
		p.revisited = append(p.revisited, n.ID())
		return false
	}
	p.visited[n.ID()] = struct{}{}
	return true
}

// handles memoizes n.handles so shared subtrees are evaluated once. A node
// that is still being evaluated further up the stack does not match.
func (p *Pass) handles(n Node) bool {
	id := n.ID()
	if v, ok := p.memo[id]; ok {
		return v
	}
	if _, ok := p.pending[id]; ok {
		return false
	}
	p.pending[id] = struct{}{}
	v := n.handles(p)
	delete(p.pending, id)
	p.memo[id] = v
	return v
}

func (p *Pass) first(nodes []Node) Node {
	for _, n := range nodes {
		if p.handles(n) {
			return n
		}
	}
	return nil
}

// choose returns the first node in nodes that matches and has not been
// expanded yet. Matching nodes skipped because they were already expanded are
// recorded as revisits.
func (p *Pass) choose(nodes []Node) Node {
	for _, n := range nodes {
		if !p.handles(n) {
			continue
		}
		if _, ok := p.visited[n.ID()]; ok {
			p.revisited = append(p.revisited, n.ID())
			continue
		}
		return n
	}
	return nil
}

func (p *Pass) any(nodes []Node) bool {
	return p.first(nodes) != nil
}

// Resolve runs a full resolution of req from root with no identity filter.
// The result is empty when nothing in the tree matches.
func Resolve(root Node, req Request) Chain {
	if root == nil {
		return nil
	}
	p := NewPass(req, nil)
	if !p.handles(root) {
		return nil
	}
	return root.Resolve(nil, p)
}
