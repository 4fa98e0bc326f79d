package router

// Fork shows one of several options at a time while keeping the others alive,
// like a tab bar.
type Fork struct {
	id        string
	presenter ForkPresenter
	options   []Node
}

// NewFork creates a Fork with the given options.
func NewFork(id string, presenter ForkPresenter, options ...Node) *Fork {
	return &Fork{id: id, presenter: presenter, options: options}
}

// Append adds options to the fork.
func (f *Fork) Append(options ...Node) *Fork {
	f.options = append(f.options, options...)
	return f
}

func (f *Fork) ID() string { return f.id }
func (f *Fork) Kind() Kind { return KindFork }
func (f *Fork) Options() []Node { return f.options }
func (f *Fork) Edges() []Node { return f.options }

func (f *Fork) Presenter() Presenter {
	if f.presenter == nil {
		return nil
	}
	return f.presenter
}

func (f *Fork) ShouldHandle(req Request, filter Filter) bool {
	return NewPass(req, filter).handles(f)
}

func (f *Fork) ShouldHandleExclusively(Request) bool { return false }

func (f *Fork) handles(p *Pass) bool {
	return p.any(f.options)
}

func (f *Fork) Resolve(prefix Chain, p *Pass) Chain {
	out := extend(prefix, f)
	if !p.enter(f) {
		return out
	}
	if option := p.choose(f.options); option != nil {
		return option.Resolve(out, p)
	}
	return out
}

func (f *Fork) apply(ancestry []Node, flags Flags, a *applier) {
	if !a.enter(f) {
		return
	}
	c := a.container(f)
	if c == nil {
		return
	}

	options := make([]Container, 0, len(f.options))
	for _, o := range f.options {
		if oc := a.container(o); oc != nil {
			options = append(options, oc)
		}
	}
	a.effect(Effect{Op: OpSetOptions, NodeID: f.id, Depth: len(ancestry)}, func() {
		f.presenter.SetOptions(options, c)
	})

	option := a.choose(f.options)
	if option == nil {
		return
	}
	selected := a.container(option)
	if selected == nil {
		return
	}
	a.effect(Effect{Op: OpSelectOption, NodeID: f.id, TargetID: option.ID(), Depth: len(ancestry)}, func() {
		f.presenter.SetOptionSelected(selected, c)
	})

	// Only a request for the option's own root is a pure selection change;
	// anything deeper has to be applied in full.
	if flags.Has(JunctionsOnly) && !option.ShouldHandleExclusively(a.pass.Request) {
		flags &^= JunctionsOnly
	}
	option.apply(appendNode(ancestry, f), flags, a)
}
