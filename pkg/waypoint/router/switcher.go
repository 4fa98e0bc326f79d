package router

// Switcher replaces the whole UI root with one of its options, e.g. to move
// between onboarding, login and the main app. Unselected options are not kept.
type Switcher struct {
	id        string
	presenter SwitcherPresenter
	options   []Node
}

// NewSwitcher creates a Switcher with the given options.
func NewSwitcher(id string, presenter SwitcherPresenter, options ...Node) *Switcher {
	return &Switcher{id: id, presenter: presenter, options: options}
}

// Append adds options to the switcher.
func (s *Switcher) Append(options ...Node) *Switcher {
	s.options = append(s.options, options...)
	return s
}

func (s *Switcher) ID() string { return s.id }
func (s *Switcher) Kind() Kind { return KindSwitcher }
func (s *Switcher) Options() []Node { return s.options }
func (s *Switcher) Edges() []Node { return s.options }

func (s *Switcher) Presenter() Presenter {
	if s.presenter == nil {
		return nil
	}
	return s.presenter
}

func (s *Switcher) ShouldHandle(req Request, filter Filter) bool {
	return NewPass(req, filter).handles(s)
}

func (s *Switcher) ShouldHandleExclusively(Request) bool { return false }

func (s *Switcher) handles(p *Pass) bool {
	return p.any(s.options)
}

func (s *Switcher) Resolve(prefix Chain, p *Pass) Chain {
	out := extend(prefix, s)
	if !p.enter(s) {
		return out
	}
	if option := p.choose(s.options); option != nil {
		return option.Resolve(out, p)
	}
	return out
}

func (s *Switcher) apply(ancestry []Node, flags Flags, a *applier) {
	if !a.enter(s) {
		return
	}
	option := a.choose(s.options)
	if option == nil {
		return
	}
	if s.presenter == nil {
		a.violation("select_option", s.id, ErrNoPresenter)
		return
	}
	selected := a.container(option)
	if selected == nil {
		return
	}
	a.effect(Effect{Op: OpSelectOption, NodeID: s.id, TargetID: option.ID(), Depth: len(ancestry)}, func() {
		s.presenter.SetOptionSelected(selected)
	})
	option.apply(appendNode(ancestry, s), flags, a)
}
