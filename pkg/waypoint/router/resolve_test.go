package router_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

func counted(path string, calls *atomic.Int64) router.Route {
	return router.RouteFunc{
		Match: func(req router.Request) bool {
			calls.Inc()
			return req == path
		},
	}
}

// diamond builds depth levels of two endpoints each, where both endpoints of
// a level have both endpoints of the next level as children. Without sharing
// the match results this tree takes 2^depth evaluations.
func diamond(depth int, rec *recorder, calls *atomic.Int64) router.Node {
	leaf := router.NewEndpoint("leaf", endpointRec{&base{id: "leaf", rec: rec}}, counted("leaf", calls))
	next := []router.Node{leaf}
	for i := depth - 1; i >= 0; i-- {
		level := make([]router.Node, 2)
		for j := range level {
			id := fmt.Sprintf("n%d.%d", i, j)
			level[j] = router.NewEndpoint(id, endpointRec{&base{id: id, rec: rec}}, counted(id, calls)).
				WithChildren(next...)
		}
		next = level
	}
	return router.NewStack("stack", stackRec{&base{id: "stack", rec: rec}}, next...)
}

func TestResolve_SharedSubtreesStayLinear(t *testing.T) {
	const depth = 40
	var calls atomic.Int64
	rec := &recorder{}
	root := diamond(depth, rec, &calls)

	chain := router.Resolve(root, "leaf")
	require.Len(t, chain, depth+2)
	assert.Equal(t, "leaf", chain.TerminalID())
	assert.Less(t, calls.Load(), int64(10*(2*depth+1)))

	calls.Store(0)
	assert.Empty(t, router.Resolve(root, "nothing"))
	assert.Less(t, calls.Load(), int64(10*(2*depth+1)))

	s := router.New(root)
	tr := s.Dispatch("leaf")
	assert.Equal(t, depth+2, len(tr.Current))
	assert.Contains(t, rec.take(), "params leaf")
}

func TestResolve_CycleTerminates(t *testing.T) {
	rec := &recorder{}
	x := router.NewEndpoint("x", endpointRec{&base{id: "x", rec: rec}}, nil)
	y := router.NewEndpoint("y", endpointRec{&base{id: "y", rec: rec}}, nil)
	z := router.NewEndpoint("z", endpointRec{&base{id: "z", rec: rec}}, exact("z"))
	x.WithChildren(y)
	y.WithChildren(x, z)
	root := router.NewStack("root", stackRec{&base{id: "root", rec: rec}}, x)

	assert.Equal(t, "root > x > y > z", router.Resolve(root, "z").String())
	assert.Empty(t, router.Resolve(root, "nothing"))
	assert.False(t, root.ShouldHandle("nothing", nil))

	metrics := &router.Metrics{}
	s := router.New(root, router.WithObserver(metrics))
	tr := s.Dispatch("z")
	assert.Equal(t, "root > x > y > z", tr.Current.String())
	assert.Contains(t, rec.take(), "params z")
	assert.Positive(t, metrics.Snapshot().Revisits)
}

func TestResolve_ModalOnFreshChain(t *testing.T) {
	a := newApp()
	chain := router.Resolve(a.root, "a/m")
	require.Len(t, chain, 4)
	modal := chain.Modal()
	require.Len(t, modal, 1)
	assert.Equal(t, "m", modal[0].Node.ID())
	assert.Same(t, a.m, chain.Terminal())
}

func TestShouldHandle(t *testing.T) {
	a := newApp()

	assert.True(t, a.root.ShouldHandle("a/m", nil))
	assert.True(t, a.a.ShouldHandle("a", nil))
	assert.False(t, a.a.ShouldHandle("a", router.Excluding("a")))
	assert.True(t, a.a.ShouldHandle("a/d", router.Excluding("a")))
	assert.False(t, a.tabs.ShouldHandle("login", nil))
	assert.True(t, a.tabs.ShouldHandle("b", router.Only("b")))
	assert.False(t, a.tabs.ShouldHandle("b", router.Only("a")))
}

func TestShouldHandleExclusively(t *testing.T) {
	a := newApp()

	assert.True(t, a.a.ShouldHandleExclusively("a"))
	assert.False(t, a.a.ShouldHandleExclusively("a/d"))
	assert.True(t, a.s1.ShouldHandleExclusively("a"))
	assert.False(t, a.s1.ShouldHandleExclusively("a/m"))
	assert.False(t, a.tabs.ShouldHandleExclusively("a"))
	assert.False(t, a.root.ShouldHandleExclusively("login"))
	assert.False(t, router.NewStack("empty", nil).ShouldHandleExclusively("a"))
}

func TestResolve_UnmatchedComposites(t *testing.T) {
	rec := &recorder{}
	empty := router.NewStack("empty", stackRec{&base{id: "empty", rec: rec}})
	fork := router.NewFork("fork", forkRec{&base{id: "fork", rec: rec}}, empty)

	p := router.NewPass("x", nil)
	assert.Equal(t, "fork", fork.Resolve(nil, p).String())
	pre := router.NewEndpoint("pre", endpointRec{&base{id: "pre", rec: rec}}, nil)
	p = router.NewPass("x", nil)
	assert.Equal(t, "pre > empty", empty.Resolve(router.ChainOf(pre), p).String())

	// an endpoint that is not on the path leaves the prefix alone
	p = router.NewPass("x", nil)
	assert.Equal(t, "pre", pre.Resolve(router.ChainOf(pre), p).String())
}
