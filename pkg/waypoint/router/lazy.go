package router

import "sync"

// Lazy creates a container on first use and keeps returning it until
// Release. With a Cache, released containers are parked there under Key and
// handed back the next time the container is needed.
type Lazy struct {
	Key      string
	Build    func() Container
	Attached func(c Container) bool // optional; nil means attached while it exists
	Cache    *ContainerCache

	mu sync.Mutex
	c  Container
}

// NewLazy creates a Lazy that builds containers with build.
func NewLazy(key string, build func() Container) *Lazy {
	return &Lazy{Key: key, Build: build}
}

// WithCache parks released containers in cache.
func (l *Lazy) WithCache(cache *ContainerCache) *Lazy {
	l.Cache = cache
	return l
}

func (l *Lazy) Container() Container {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.c != nil {
		return l.c
	}
	if l.Cache != nil {
		if c, ok := l.Cache.Take(l.Key); ok {
			l.c = c
			return c
		}
	}
	if l.Build == nil {
		return nil
	}
	l.c = l.Build()
	return l.c
}

func (l *Lazy) ContainerExists() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c != nil
}

func (l *Lazy) IsAttached() bool {
	l.mu.Lock()
	c := l.c
	l.mu.Unlock()

	if c == nil {
		return false
	}
	if l.Attached == nil {
		return true
	}
	return l.Attached(c)
}

// Release forgets the current container, parking it in the cache if one is set.
func (l *Lazy) Release() {
	l.mu.Lock()
	c := l.c
	l.c = nil
	l.mu.Unlock()

	if c != nil && l.Cache != nil {
		l.Cache.Put(l.Key, c)
	}
}

// EndpointFuncs is an EndpointPresenter built from optional callbacks.
// Unset callbacks do nothing.
type EndpointFuncs struct {
	*Lazy
	OnParameters    func(params Parameters, c Container)
	OnUnwind        func(c Container)
	OnPresentModal  func(modal, over Container)
	OnDismissModal  func(modal Container)
	ReleaseOnUnwind bool
}

func (p *EndpointFuncs) SetParameters(params Parameters, c Container) {
	if p.OnParameters != nil {
		p.OnParameters(params, c)
	}
}

func (p *EndpointFuncs) Unwind(c Container) {
	if p.OnUnwind != nil {
		p.OnUnwind(c)
	}
	if p.ReleaseOnUnwind {
		p.Release()
	}
}

func (p *EndpointFuncs) PresentModal(modal, over Container) {
	if p.OnPresentModal != nil {
		p.OnPresentModal(modal, over)
	}
}

func (p *EndpointFuncs) DismissModal(modal Container) {
	if p.OnDismissModal != nil {
		p.OnDismissModal(modal)
	}
}

// StackFuncs is a StackPresenter built from optional callbacks.
type StackFuncs struct {
	*Lazy
	OnSetStack    func(members []Container, c Container)
	OnPrepareRoot func(first, c Container)
	OnUnwind      func(c Container)
}

func (p *StackFuncs) SetParameters(Parameters, Container) {}

func (p *StackFuncs) Unwind(c Container) {
	if p.OnUnwind != nil {
		p.OnUnwind(c)
	}
}

func (p *StackFuncs) SetStack(members []Container, c Container) {
	if p.OnSetStack != nil {
		p.OnSetStack(members, c)
	}
}

func (p *StackFuncs) PrepareRoot(first, c Container) {
	if p.OnPrepareRoot != nil {
		p.OnPrepareRoot(first, c)
	}
}

// ForkFuncs is a ForkPresenter built from optional callbacks.
type ForkFuncs struct {
	*Lazy
	OnSetOptions func(options []Container, c Container)
	OnSelect     func(option, c Container)
	OnUnwind     func(c Container)
}

func (p *ForkFuncs) SetParameters(Parameters, Container) {}

func (p *ForkFuncs) Unwind(c Container) {
	if p.OnUnwind != nil {
		p.OnUnwind(c)
	}
}

func (p *ForkFuncs) SetOptions(options []Container, c Container) {
	if p.OnSetOptions != nil {
		p.OnSetOptions(options, c)
	}
}

func (p *ForkFuncs) SetOptionSelected(option, c Container) {
	if p.OnSelect != nil {
		p.OnSelect(option, c)
	}
}

// SwitcherFuncs is a SwitcherPresenter built from optional callbacks. A
// switcher usually swaps a window's root and has no container of its own, so
// Lazy may be left nil.
type SwitcherFuncs struct {
	*Lazy
	OnSelect func(option Container)
	OnUnwind func(c Container)
}

func (p *SwitcherFuncs) Container() Container {
	if p.Lazy == nil {
		return nil
	}
	return p.Lazy.Container()
}

func (p *SwitcherFuncs) ContainerExists() bool {
	return p.Lazy != nil && p.Lazy.ContainerExists()
}

func (p *SwitcherFuncs) IsAttached() bool {
	return p.Lazy != nil && p.Lazy.IsAttached()
}

func (p *SwitcherFuncs) SetParameters(Parameters, Container) {}

func (p *SwitcherFuncs) Unwind(c Container) {
	if p.OnUnwind != nil {
		p.OnUnwind(c)
	}
}

func (p *SwitcherFuncs) SetOptionSelected(option Container) {
	if p.OnSelect != nil {
		p.OnSelect(option)
	}
}
