package router_test

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// box stands in for a live UI object.
type box struct{ id string }

func (b *box) String() string { return b.id }

func names(cs []router.Container) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprint(c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// recorder collects presenter calls in the order they happen.
type recorder struct {
	mu  sync.Mutex
	log []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, fmt.Sprintf(format, args...))
}

// take returns the calls recorded since the last take.
func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.log
	r.log = nil
	return out
}

func countPrefix(log []string, prefixes ...string) int {
	n := 0
	for _, line := range log {
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				n++
			}
		}
	}
	return n
}

// disruptive counts the calls that present, hide or release UI.
func disruptive(log []string) int {
	return countPrefix(log, "unwind ", "dismiss ", "present ")
}

// base implements the common presenter calls and records them.
type base struct {
	id       string
	rec      *recorder
	noBox    bool
	detached bool
	c        *box
}

func (p *base) Container() router.Container {
	if p.noBox {
		return nil
	}
	if p.c == nil {
		p.c = &box{id: p.id}
	}
	return p.c
}

func (p *base) ContainerExists() bool { return p.c != nil }
func (p *base) IsAttached() bool { return p.c != nil && !p.detached }

func (p *base) SetParameters(params router.Parameters, c router.Container) {
	if len(params) == 0 {
		p.rec.add("params %s", c)
		return
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]string, len(keys))
	for i, k := range keys {
		kv[i] = k + "=" + params[k]
	}
	p.rec.add("params %s %s", c, strings.Join(kv, ","))
}

func (p *base) Unwind(c router.Container) { p.rec.add("unwind %s", c) }

type endpointRec struct{ *base }

func (p endpointRec) PresentModal(modal, over router.Container) {
	p.rec.add("present %s over %s", modal, over)
}

func (p endpointRec) DismissModal(modal router.Container) {
	p.rec.add("dismiss %s from %s", modal, p.id)
}

type stackRec struct{ *base }

func (p stackRec) SetStack(members []router.Container, c router.Container) {
	p.rec.add("stack %s %s", c, names(members))
}

func (p stackRec) PrepareRoot(first, c router.Container) {
	p.rec.add("root %s %s", c, first)
}

type forkRec struct{ *base }

func (p forkRec) SetOptions(options []router.Container, c router.Container) {
	p.rec.add("options %s %s", c, names(options))
}

func (p forkRec) SetOptionSelected(option, c router.Container) {
	p.rec.add("select %s %s", c, option)
}

type switcherRec struct{ *base }

func (p switcherRec) SetOptionSelected(option router.Container) {
	p.rec.add("switch %s %s", p.id, option)
}

func exact(path string) router.Route {
	return router.RouteFunc{
		Match: func(req router.Request) bool { return req == path },
	}
}

// app is the tree
//
//	root: Switcher{login, tabs: Fork{s1: Stack[a{children: d, modals: m}], s2: Stack[b]}}
type app struct {
	rec    *recorder
	bases  map[string]*base
	root   *router.Switcher
	tabs   *router.Fork
	s1, s2 *router.Stack
	login  *router.Endpoint
	a, b   *router.Endpoint
	d, m   *router.Endpoint
}

func newApp() *app {
	t := &app{rec: &recorder{}, bases: make(map[string]*base)}
	mk := func(id string) *base {
		b := &base{id: id, rec: t.rec}
		t.bases[id] = b
		return b
	}

	t.login = router.NewEndpoint("login", endpointRec{mk("login")}, exact("login"))
	t.d = router.NewEndpoint("d", endpointRec{mk("d")}, exact("a/d"))
	t.m = router.NewEndpoint("m", endpointRec{mk("m")}, exact("a/m"))
	t.a = router.NewEndpoint("a", endpointRec{mk("a")}, exact("a")).
		WithChildren(t.d).
		WithModals(t.m)
	t.b = router.NewEndpoint("b", endpointRec{mk("b")}, exact("b"))
	t.s1 = router.NewStack("s1", stackRec{mk("s1")}, t.a)
	t.s2 = router.NewStack("s2", stackRec{mk("s2")}, t.b)
	t.tabs = router.NewFork("tabs", forkRec{mk("tabs")}, t.s1, t.s2)
	t.root = router.NewSwitcher("root", switcherRec{mk("root")}, t.login, t.tabs)
	return t
}

func (t *app) store(opts ...router.Option) *router.Store {
	return router.New(t.root, opts...)
}
