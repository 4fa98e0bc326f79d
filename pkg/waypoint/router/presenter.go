package router

// Request is an opaque navigation request. The router never inspects it; it is
// handed unchanged to the Route bound on each Endpoint.
type Request any

// Parameters are the values a Route resolves out of a Request.
type Parameters map[string]string

// Container is a live UI object owned by a presenter (a screen, a navigation
// stack, a tab bar). The router only passes containers between presenters.
type Container any

// Route decides whether a Request targets an Endpoint and extracts its Parameters.
type Route interface {
	Matches(req Request) bool
	Resolve(req Request) Parameters
}

// RouteFunc adapts a pair of functions to the Route interface.
type RouteFunc struct {
	Match   func(req Request) bool
	Extract func(req Request) Parameters
}

func (r RouteFunc) Matches(req Request) bool {
	return r.Match != nil && r.Match(req)
}

func (r RouteFunc) Resolve(req Request) Parameters {
	if r.Extract == nil {
		return Parameters{}
	}
	return r.Extract(req)
}

// Presenter is the set of container operations every node kind needs.
//
// Container lazily creates the container and must keep returning the same
// value until the presenter tears it down. A nil Container means the container
// cannot be created yet; the router skips the effects that depend on it.
// ContainerExists must not create anything and may be called from any goroutine.
type Presenter interface {
	Container() Container
	ContainerExists() bool
	SetParameters(params Parameters, c Container)
	Unwind(c Container)
}

// Attacher is implemented by presenters that can tell whether their container
// is still on screen. Containers of presenters that do not implement it are
// considered attached for as long as they exist.
type Attacher interface {
	IsAttached() bool
}

// EndpointPresenter presents an Endpoint and the modals layered over it.
type EndpointPresenter interface {
	Presenter
	PresentModal(modal, over Container)
	DismissModal(modal Container)
}

// StackPresenter drives a navigation stack container.
//
// SetStack replaces the visible members; implementations should reconcile
// rather than rebuild. PrepareRoot is called before SetStack on every apply
// and should be a no-op once the stack has content.
type StackPresenter interface {
	Presenter
	SetStack(members []Container, c Container)
	PrepareRoot(first Container, c Container)
}

// ForkPresenter drives a tab-like container that keeps all options alive.
type ForkPresenter interface {
	Presenter
	SetOptions(options []Container, c Container)
	SetOptionSelected(option Container, c Container)
}

// SwitcherPresenter swaps the UI root (a window's root view, for example).
type SwitcherPresenter interface {
	Presenter
	SetOptionSelected(option Container)
}
