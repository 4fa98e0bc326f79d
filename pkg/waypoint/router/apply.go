package router

// applier carries the state of one apply phase.
type applier struct {
	pass      *Pass
	presented map[string]Node // host id -> root of the modal shown over it
	applied   map[string]struct{}
	observer  Observer
	effects   []Effect
}

func newApplier(pass *Pass, presented map[string]Node, observer Observer) *applier {
	if presented == nil {
		presented = make(map[string]Node)
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &applier{
		pass:      pass,
		presented: presented,
		applied:   make(map[string]struct{}),
		observer:  observer,
	}
}

// enter guards against applying a node twice in the same phase.
func (a *applier) enter(n Node) bool {
	if _, ok := a.applied[n.ID()]; ok {
		a.observer.OnRevisit(a.pass.Request, n.ID())
		return false
	}
	a.applied[n.ID()] = struct{}{}
	return true
}

// choose is Pass.choose for the apply phase: nodes already applied are skipped.
func (a *applier) choose(nodes []Node) Node {
	for _, n := range nodes {
		if !a.pass.handles(n) {
			continue
		}
		if _, ok := a.applied[n.ID()]; ok {
			a.observer.OnRevisit(a.pass.Request, n.ID())
			continue
		}
		return n
	}
	return nil
}

func (a *applier) container(n Node) Container {
	p := n.Presenter()
	if p == nil {
		a.violation("container", n.ID(), ErrNoPresenter)
		return nil
	}
	c := p.Container()
	if c == nil {
		a.violation("container", n.ID(), ErrNoContainer)
		return nil
	}
	return c
}

func (a *applier) effect(e Effect, fn func()) {
	fn()
	a.effects = append(a.effects, e)
	a.observer.OnEffect(e)
}

func (a *applier) violation(op, id string, err error) {
	a.observer.OnContractError(&ContractError{Op: op, NodeID: id, Err: err})
}

// attached reports whether n's container is still part of the presented UI.
func attached(n Node) bool {
	p := n.Presenter()
	if p == nil || !p.ContainerExists() {
		return false
	}
	if at, ok := p.(Attacher); ok {
		return at.IsAttached()
	}
	return true
}
