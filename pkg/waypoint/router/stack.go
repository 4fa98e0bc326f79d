package router

// Stack organizes Endpoints in a push/pop navigation stack. Each member is a
// possible root of the stack; the Endpoint children below the matching member
// are what gets pushed.
type Stack struct {
	id        string
	presenter StackPresenter
	members   []Node
}

// NewStack creates a Stack with the given members.
func NewStack(id string, presenter StackPresenter, members ...Node) *Stack {
	return &Stack{id: id, presenter: presenter, members: members}
}

// Append adds members to the stack.
func (s *Stack) Append(members ...Node) *Stack {
	s.members = append(s.members, members...)
	return s
}

func (s *Stack) ID() string { return s.id }
func (s *Stack) Kind() Kind { return KindStack }
func (s *Stack) Members() []Node { return s.members }
func (s *Stack) Edges() []Node { return s.members }

func (s *Stack) Presenter() Presenter {
	if s.presenter == nil {
		return nil
	}
	return s.presenter
}

func (s *Stack) ShouldHandle(req Request, filter Filter) bool {
	return NewPass(req, filter).handles(s)
}

// ShouldHandleExclusively asks the first member, which is the stack's root.
func (s *Stack) ShouldHandleExclusively(req Request) bool {
	if len(s.members) == 0 {
		return false
	}
	return s.members[0].ShouldHandleExclusively(req)
}

func (s *Stack) handles(p *Pass) bool {
	return p.any(s.members)
}

// Resolve returns prefix+[s] followed by the matching member's chain. The
// member chain starts fresh: members do not see the nodes above the stack.
func (s *Stack) Resolve(prefix Chain, p *Pass) Chain {
	out := extend(prefix, s)
	if !p.enter(s) {
		return out
	}
	member := p.choose(s.members)
	if member == nil {
		return out
	}
	return append(out, member.Resolve(nil, p)...)
}

func (s *Stack) apply(ancestry []Node, flags Flags, a *applier) {
	if !a.enter(s) {
		return
	}
	member := a.choose(s.members)
	if member == nil {
		return
	}

	c := a.container(s)
	root := a.container(member)
	if c == nil || root == nil {
		return
	}
	a.effect(Effect{Op: OpPrepareRoot, NodeID: s.id, TargetID: member.ID(), Depth: len(ancestry)}, func() {
		s.presenter.PrepareRoot(root, c)
	})

	if !flags.Has(JunctionsOnly) {
		// the stack shows everything up to and including the screen a modal
		// is presented over
		chain := member.Resolve(nil, NewPass(a.pass.Request, a.pass.Filter)).throughFirstModal()
		containers := make([]Container, 0, len(chain))
		for _, l := range chain {
			if mc := a.container(l.Node); mc != nil {
				containers = append(containers, mc)
			}
		}
		a.effect(Effect{Op: OpSetStack, NodeID: s.id, TargetID: topID(chain), Depth: len(ancestry)}, func() {
			s.presenter.SetStack(containers, c)
		})
	}

	member.apply(nil, flags, a)
}

func topID(c Chain) string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1].Node.ID()
}
