package router

type stepKind int

const (
	stepDismiss stepKind = iota
	stepUnwind
)

// step is one planned teardown effect of the diff phase.
type step struct {
	kind   stepKind
	node   Node // host for stepDismiss, unwound node for stepUnwind
	target Node // dismissed modal root
}

// Plan is the pure outcome of Reduce: the next active chain plus the teardown
// steps that reconcile the old one. Nothing touches a presenter until Execute.
type Plan struct {
	Request  Request
	Flags    Flags
	Previous Chain // state before the dispatch
	Pruned   Chain // Previous without detached trailing links
	Next     Chain // new active chain
	Matched  bool
	Anchor   string // id of the link the incremental search matched from, if any

	// Revisited lists nodes reached more than once while resolving.
	Revisited []string

	root      Node
	steps     []step
	presented map[string]Node
}

// Reduce computes the transition from state for req. It calls only the
// read-only parts of the presenter contract (ContainerExists, IsAttached).
func Reduce(root Node, state Chain, req Request, flags Flags) *Plan {
	plan := &Plan{
		Request:  req,
		Flags:    flags,
		Previous: state,
		root:     root,
	}

	plan.Pruned = state.prune(attached)
	plan.presented = plan.Pruned.modalHosts(nil)

	plan.Next, plan.Anchor = plan.search(req)
	if plan.Next != nil {
		plan.Matched = true
	} else if root != nil {
		p := NewPass(req, nil)
		if p.handles(root) {
			plan.Matched = true
			plan.Next = root.Resolve(nil, p)
		}
		plan.Revisited = append(plan.Revisited, p.Revisited()...)
	}

	plan.steps = planTeardown(plan.Previous, plan.Next)
	return plan
}

// search tries to reach req from the deepest presented link, dropping links
// from the end until something matches or the chain is exhausted.
func (plan *Plan) search(req Request) (Chain, string) {
	working := plan.Pruned
	for len(working) > 0 {
		anchor := working.Terminal()
		p := NewPass(req, Excluding(anchor.ID()))
		found := anchor.Resolve(nil, p)
		plan.Revisited = append(plan.Revisited, p.Revisited()...)

		if len(found) > 1 {
			return working.appendDeepest(found[1:]), anchor.ID()
		}
		if modal := found.Modal(); len(found) == 1 && len(modal) > 0 {
			return working.attachModalDeepest(modal), anchor.ID()
		}
		working = working.dropDeepest()
	}
	return nil, ""
}

// planTeardown diffs old against next by node id. Modal chains are compared
// first and in lock-step. Every modal branch that went away is dismissed,
// deepest first, before anything is unwound; unwinding then runs from the
// first divergence to the end of each chain in reverse.
func planTeardown(old, next Chain) []step {
	var dismisses, unwinds []step
	teardown(old, next, &dismisses, &unwinds)
	return append(dismisses, unwinds...)
}

func teardown(old, next Chain, dismisses, unwinds *[]step) {
	d := divergence(old, next)

	for i, l := range old {
		if len(l.Modal) == 0 {
			continue
		}
		var inner Chain
		if continuesModal(old, next, i, d) {
			inner = next[i].Modal
		}
		teardown(l.Modal, inner, dismisses, unwinds)
	}

	for i := len(old) - 1; i >= 0; i-- {
		l := old[i]
		if len(l.Modal) == 0 || continuesModal(old, next, i, d) {
			continue
		}
		*dismisses = append(*dismisses, step{kind: stepDismiss, node: l.Node, target: l.Modal[0].Node})
	}

	for j := len(old) - 1; j >= d; j-- {
		*unwinds = append(*unwinds, step{kind: stepUnwind, node: old[j].Node})
	}
}

func divergence(old, next Chain) int {
	for i := range old {
		if i >= len(next) || old[i].Node.ID() != next[i].Node.ID() {
			return i
		}
	}
	return len(old)
}

// continuesModal reports whether the modal branch on old[i] survives into next
// with the same root.
func continuesModal(old, next Chain, i, d int) bool {
	if i >= d || len(next[i].Modal) == 0 {
		return false
	}
	return next[i].Modal[0].Node.ID() == old[i].Modal[0].Node.ID()
}

// Effects lists the teardown effects Execute will attempt, in order. Apply
// effects depend on the presenters and are only known once executed.
func (plan *Plan) Effects() []Effect {
	out := make([]Effect, 0, len(plan.steps))
	for _, s := range plan.steps {
		switch s.kind {
		case stepDismiss:
			out = append(out, Effect{Op: OpDismissModal, NodeID: s.node.ID(), TargetID: s.target.ID()})
		case stepUnwind:
			out = append(out, Effect{Op: OpUnwind, NodeID: s.node.ID()})
		}
	}
	return out
}

// Execute runs the teardown steps and then applies the new chain from the
// root. It returns the effects that were actually issued.
//
// Modals count as presented when the pruned chain shows them. A Store keeps
// that record across executions instead; see execute.
func (plan *Plan) Execute(obs Observer) []Effect {
	effects, _ := plan.execute(obs, plan.presented)
	return effects
}

// execute runs the plan starting from presented, the modals shown when the
// previous plan finished, and returns the record as it stands afterwards.
// Entries whose modal is no longer attached are dropped before anything runs,
// so the check happens on the executor's context and not at Reduce time.
func (plan *Plan) execute(obs Observer, presented map[string]Node) ([]Effect, map[string]Node) {
	live := make(map[string]Node, len(presented))
	for host, modal := range presented {
		if attached(modal) {
			live[host] = modal
		}
	}
	a := newApplier(NewPass(plan.Request, Only(plan.Next.TerminalID())), live, obs)

	for _, s := range plan.steps {
		switch s.kind {
		case stepDismiss:
			host, ok := s.node.(*Endpoint)
			if !ok {
				a.violation("dismiss_modal", s.node.ID(), ErrNoPresenter)
				continue
			}
			host.dismiss(s.target, a)
		case stepUnwind:
			unwind(s.node, a)
		}
	}

	if len(plan.Next) > 0 && plan.root != nil {
		plan.root.apply(nil, plan.Flags, a)
	}
	return a.effects, a.presented
}

func unwind(n Node, a *applier) {
	delete(a.presented, n.ID())
	p := n.Presenter()
	if p == nil {
		a.violation("unwind", n.ID(), ErrNoPresenter)
		return
	}
	if !p.ContainerExists() {
		return
	}
	c := p.Container()
	if c == nil {
		return
	}
	a.effect(Effect{Op: OpUnwind, NodeID: n.ID()}, func() {
		p.Unwind(c)
	})
}
