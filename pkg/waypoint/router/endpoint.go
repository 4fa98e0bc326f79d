package router

// Endpoint is an actual destination: a screen configured with the Parameters
// its Route resolves. Children are pushed after it inside the enclosing Stack;
// modals are presented over it.
type Endpoint struct {
	id        string
	presenter EndpointPresenter
	route     Route
	children  []Node
	modals    []Node
}

// NewEndpoint creates an Endpoint. A nil route never matches, which is useful
// for grouping children under a screen that is never targeted directly.
func NewEndpoint(id string, presenter EndpointPresenter, route Route) *Endpoint {
	return &Endpoint{id: id, presenter: presenter, route: route}
}

// WithChildren appends nodes that can be pushed from this Endpoint.
func (e *Endpoint) WithChildren(children ...Node) *Endpoint {
	e.children = append(e.children, children...)
	return e
}

// WithModals appends nodes that can be presented modally over this Endpoint.
func (e *Endpoint) WithModals(modals ...Node) *Endpoint {
	e.modals = append(e.modals, modals...)
	return e
}

func (e *Endpoint) ID() string { return e.id }
func (e *Endpoint) Kind() Kind { return KindEndpoint }
func (e *Endpoint) Route() Route { return e.route }
func (e *Endpoint) Children() []Node { return e.children }
func (e *Endpoint) Modals() []Node { return e.modals }

func (e *Endpoint) Presenter() Presenter {
	if e.presenter == nil {
		return nil
	}
	return e.presenter
}

func (e *Endpoint) Edges() []Node {
	edges := make([]Node, 0, len(e.children)+len(e.modals))
	edges = append(edges, e.children...)
	return append(edges, e.modals...)
}

func (e *Endpoint) ShouldHandle(req Request, filter Filter) bool {
	return NewPass(req, filter).handles(e)
}

func (e *Endpoint) ShouldHandleExclusively(req Request) bool {
	return e.route != nil && e.route.Matches(req)
}

func (e *Endpoint) matchesOwn(p *Pass) bool {
	return e.ShouldHandleExclusively(p.Request) && p.allows(e)
}

func (e *Endpoint) handles(p *Pass) bool {
	return e.matchesOwn(p) || p.any(e.children) || p.any(e.modals)
}

// Resolve returns prefix+[e] when e matches by itself or through one of its
// modals (the modal chain hangs off e's link), prefix+[e]+child chain when a
// child matches, and prefix unchanged otherwise.
func (e *Endpoint) Resolve(prefix Chain, p *Pass) Chain {
	if !p.enter(e) {
		return prefix
	}

	if e.matchesOwn(p) {
		return extend(prefix, e)
	}

	if modal := p.choose(e.modals); modal != nil {
		out := extend(prefix, e)
		if sub := modal.Resolve(nil, p); len(sub) > 0 {
			out[len(out)-1].Modal = sub
		}
		return out
	}

	if child := p.choose(e.children); child != nil {
		return child.Resolve(extend(prefix, e), p)
	}

	return prefix
}

func (e *Endpoint) apply(ancestry []Node, flags Flags, a *applier) {
	if !a.enter(e) {
		return
	}

	if e.matchesOwn(a.pass) {
		c := a.container(e)
		if c == nil {
			return
		}
		params := e.route.Resolve(a.pass.Request)
		a.effect(Effect{Op: OpSetParameters, NodeID: e.id, Depth: len(ancestry)}, func() {
			e.presenter.SetParameters(params, c)
		})
		return
	}

	if modal := a.choose(e.modals); modal != nil {
		if cur, ok := a.presented[e.id]; !ok || cur.ID() != modal.ID() {
			over := a.container(e)
			mc := a.container(modal)
			if over == nil || mc == nil {
				return
			}
			a.effect(Effect{Op: OpPresentModal, NodeID: e.id, TargetID: modal.ID(), Depth: len(ancestry)}, func() {
				e.presenter.PresentModal(mc, over)
			})
			a.presented[e.id] = modal
		}
		// a modal starts a fresh presentation branch
		modal.apply(nil, flags, a)
		return
	}

	if child := a.choose(e.children); child != nil {
		child.apply(appendNode(ancestry, e), flags, a)
	}
}

func (e *Endpoint) dismiss(modal Node, a *applier) {
	if e.presenter == nil {
		a.violation("dismiss_modal", e.id, ErrNoPresenter)
		return
	}
	delete(a.presented, e.id)
	mp := modal.Presenter()
	if mp == nil || !mp.ContainerExists() {
		return
	}
	mc := mp.Container()
	if mc == nil {
		return
	}
	a.effect(Effect{Op: OpDismissModal, NodeID: e.id, TargetID: modal.ID()}, func() {
		e.presenter.DismissModal(mc)
	})
}

func appendNode(nodes []Node, n Node) []Node {
	out := make([]Node, len(nodes), len(nodes)+1)
	copy(out, nodes)
	return append(out, n)
}
