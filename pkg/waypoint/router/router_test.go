package router_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

func TestStore_LoginTabsModalScenario(t *testing.T) {
	a := newApp()
	s := a.store()

	tr := s.Dispatch("login")
	require.True(t, tr.Matched)
	assert.Equal(t, "root > login", tr.Current.String())
	assert.Equal(t, []string{
		"switch root login",
		"params login",
	}, a.rec.take())

	tr = s.Dispatch("a")
	assert.Equal(t, "root > tabs > s1 > a", tr.Current.String())
	assert.Equal(t, []string{
		"unwind login",
		"switch root tabs",
		"options tabs [s1 s2]",
		"select tabs s1",
		"root s1 a",
		"stack s1 [a]",
		"params a",
	}, a.rec.take())

	tr = s.Dispatch("a/m")
	assert.Equal(t, []string{"root", "tabs", "s1", "a"}, tr.Current.IDs())
	assert.Equal(t, "root > tabs > s1 > a{m}", tr.Current.String())
	assert.Equal(t, "a", tr.Anchor)
	log := a.rec.take()
	assert.Equal(t, 1, countPrefix(log, "present m over a"))
	assert.Contains(t, log, "stack s1 [a]")
	assert.Contains(t, log, "params m")
	assert.Zero(t, countPrefix(log, "unwind ", "dismiss "))

	tr = s.Dispatch("a/m")
	assert.False(t, tr.Changed())
	assert.Zero(t, disruptive(a.rec.take()))
	assert.Equal(t, "root > tabs > s1 > a{m}", s.State().String())
}

func TestStore_Idempotent(t *testing.T) {
	for _, req := range []string{"login", "a", "a/d", "a/m", "b"} {
		t.Run(req, func(t *testing.T) {
			a := newApp()
			s := a.store()

			first := s.Dispatch(req)
			a.rec.take()

			second := s.Dispatch(req)
			assert.True(t, first.Current.Equal(second.Current))
			assert.Zero(t, disruptive(a.rec.take()))
		})
	}
}

func TestStore_PrefixPreserved(t *testing.T) {
	a := newApp()
	s := a.store()

	s.Dispatch("a")
	a.rec.take()

	tr := s.Dispatch("a/d")
	assert.Equal(t, "root > tabs > s1 > a > d", tr.Current.String())
	log := a.rec.take()
	assert.Zero(t, countPrefix(log, "unwind "))
	assert.Contains(t, log, "stack s1 [a d]")
	assert.Contains(t, log, "params d")

	tr = s.Dispatch("a")
	assert.Equal(t, "root > tabs > s1 > a", tr.Current.String())
	log = a.rec.take()
	assert.Equal(t, "unwind d", log[0])
	assert.Equal(t, 1, countPrefix(log, "unwind "))
}

func TestStore_ModalDismissedBeforeUnwind(t *testing.T) {
	a := newApp()
	s := a.store()

	s.Dispatch("a/m")
	a.rec.take()

	tr := s.Dispatch("b")
	assert.Equal(t, "root > tabs > s2 > b", tr.Current.String())
	log := a.rec.take()
	require.GreaterOrEqual(t, len(log), 4)
	assert.Equal(t, []string{
		"dismiss m from a",
		"unwind m",
		"unwind a",
		"unwind s1",
	}, log[:4])
	assert.Contains(t, log[4:], "select tabs s2")
	assert.Contains(t, log[4:], "params b")
}

func TestStore_ModalClosedByOwnHost(t *testing.T) {
	a := newApp()
	s := a.store()

	s.Dispatch("a/m")
	a.rec.take()

	tr := s.Dispatch("a")
	assert.Equal(t, "root > tabs > s1 > a", tr.Current.String())
	log := a.rec.take()
	assert.Equal(t, []string{"dismiss m from a", "unwind m"}, log[:2])
	assert.Equal(t, 2, disruptive(log))

	// presenting again after a dismissal is a new presentation
	s.Dispatch("a/m")
	assert.Equal(t, 1, countPrefix(a.rec.take(), "present m over a"))
}

func TestStore_JunctionsOnlyKeepsOptionContent(t *testing.T) {
	a := newApp()
	s := a.store()

	s.Dispatch("a/d")
	s.Dispatch("b")
	a.rec.take()

	tr := s.Dispatch("a", router.JunctionsOnly)
	assert.Equal(t, "root > tabs > s1 > a", tr.Current.String())
	log := a.rec.take()
	assert.Contains(t, log, "select tabs s1")
	assert.Contains(t, log, "root s1 a")
	assert.Zero(t, countPrefix(log, "stack s1"))

	s.Dispatch("b")
	a.rec.take()
	s.Dispatch("a")
	assert.Contains(t, a.rec.take(), "stack s1 [a]")
}

func TestStore_JunctionsOnlyDeepRequestAppliesFully(t *testing.T) {
	a := newApp()
	s := a.store()

	s.Dispatch("b")
	a.rec.take()

	s.Dispatch("a/d", router.JunctionsOnly)
	assert.Contains(t, a.rec.take(), "stack s1 [a d]")
}

func TestStore_PrunesDetachedModal(t *testing.T) {
	a := newApp()
	s := a.store()

	s.Dispatch("a/m")
	a.rec.take()

	// the user swiped the modal away without going through the router
	a.bases["m"].detached = true

	tr := s.Dispatch("a/m")
	assert.Equal(t, "root > tabs > s1 > a", tr.Pruned.String())
	assert.Equal(t, "root > tabs > s1 > a{m}", tr.Current.String())
	log := a.rec.take()
	assert.Equal(t, 1, countPrefix(log, "present m over a"))
	assert.Zero(t, countPrefix(log, "dismiss ", "unwind "))
}

func TestStore_PrunesDetachedTail(t *testing.T) {
	a := newApp()
	s := a.store()

	s.Dispatch("a/d")
	a.bases["d"].detached = true

	tr := s.Dispatch("b")
	assert.Equal(t, "root > tabs > s1 > a", tr.Pruned.String())
	assert.Equal(t, "root > tabs > s2 > b", tr.Current.String())
}

func TestStore_NoMatchUnwindsEverything(t *testing.T) {
	a := newApp()
	s := a.store()

	s.Dispatch("a")
	a.rec.take()

	tr := s.Dispatch("nowhere")
	assert.False(t, tr.Matched)
	assert.Empty(t, tr.Current)
	assert.Empty(t, s.State())
	// the switcher never created a container, so it has nothing to unwind
	assert.Equal(t, []string{"unwind a", "unwind s1", "unwind tabs"}, a.rec.take())
}

func TestStore_IgnoreUnmatched(t *testing.T) {
	a := newApp()
	s := a.store(router.WithIgnoreUnmatched())

	s.Dispatch("a")
	a.rec.take()

	tr := s.Dispatch("nowhere")
	assert.False(t, tr.Matched)
	assert.False(t, tr.Changed())
	assert.Equal(t, "root > tabs > s1 > a", s.State().String())
	assert.Empty(t, a.rec.take())
}

func TestStore_SwitchBackToLogin(t *testing.T) {
	a := newApp()
	s := a.store()

	s.Dispatch("a/m")
	a.rec.take()

	tr := s.Dispatch("login")
	assert.Equal(t, "root > login", tr.Current.String())
	assert.Equal(t, []string{
		"dismiss m from a",
		"unwind m",
		"unwind a",
		"unwind s1",
		"unwind tabs",
		"switch root login",
		"params login",
	}, a.rec.take())
}

func TestStore_WithState(t *testing.T) {
	a := newApp()
	a.bases["login"].Container()
	s := a.store(router.WithState(router.ChainOf(a.root, a.login)))

	tr := s.Dispatch("b")
	assert.Equal(t, "root > login", tr.Previous.String())
	assert.Equal(t, "unwind login", a.rec.take()[0])
}

func TestStore_Seq(t *testing.T) {
	a := newApp()
	s := a.store()

	assert.Equal(t, uint64(1), s.Dispatch("a").Seq)
	assert.Equal(t, uint64(2), s.Dispatch("b").Seq)
	assert.Equal(t, uint64(2), s.Seq())
	assert.Same(t, a.root, s.Root())
}

// queue is an Executor for a context the test goroutine is never on.
type queue struct {
	fns []func()
}

func (q *queue) OnContext() bool { return false }
func (q *queue) Post(fn func()) { q.fns = append(q.fns, fn) }

func (q *queue) run() {
	fns := q.fns
	q.fns = nil
	for _, fn := range fns {
		fn()
	}
}

func TestStore_OffContextEffectsArePosted(t *testing.T) {
	a := newApp()
	q := &queue{}
	s := a.store(router.WithExecutor(q))

	s.Dispatch("login")
	s.Dispatch("a")

	assert.Equal(t, "root > tabs > s1 > a", s.State().String())
	assert.Empty(t, a.rec.take())
	require.Len(t, q.fns, 2)

	q.run()
	log := a.rec.take()
	assert.Equal(t, "switch root login", log[0])
	assert.Contains(t, log, "unwind login")
	assert.Equal(t, "params a", log[len(log)-1])
}

func TestStore_OffContextIdempotent(t *testing.T) {
	for _, req := range []string{"login", "a", "a/d", "a/m", "b"} {
		t.Run(req, func(t *testing.T) {
			once := newApp()
			once.store().Dispatch(req)
			want := disruptive(once.rec.take())

			a := newApp()
			q := &queue{}
			s := a.store(router.WithExecutor(q))

			// the second request is reduced before any effect has run
			s.Dispatch(req)
			s.Dispatch(req)
			q.run()

			assert.Equal(t, want, disruptive(a.rec.take()))
		})
	}
}

func TestStore_OffContextModalPresentedOnce(t *testing.T) {
	a := newApp()
	q := &queue{}
	s := a.store(router.WithExecutor(q))

	s.Dispatch("a/m")
	s.Dispatch("a/m")
	q.run()

	log := a.rec.take()
	assert.Equal(t, 1, countPrefix(log, "present m over a"))
	assert.Equal(t, 2, countPrefix(log, "params m"))
	assert.Zero(t, countPrefix(log, "dismiss ", "unwind "))
	assert.Equal(t, "root > tabs > s1 > a{m}", s.State().String())

	// swiped away between frames: the next request presents it again
	a.bases["m"].detached = true
	s.Dispatch("a/m")
	q.run()
	assert.Equal(t, 1, countPrefix(a.rec.take(), "present m over a"))
}

// overlap counts presenter calls that are in flight at the same time.
type overlap struct {
	inFlight atomic.Int64
	peak     atomic.Int64
	calls    atomic.Int64
}

func (o *overlap) call() {
	n := o.inFlight.Inc()
	defer o.inFlight.Dec()
	for {
		p := o.peak.Load()
		if n <= p || o.peak.CompareAndSwap(p, n) {
			break
		}
	}
	o.calls.Inc()
	time.Sleep(2 * time.Millisecond)
}

// lockedPresenter is safe to share between goroutines and serves as both an
// endpoint and a switcher presenter.
type lockedPresenter struct {
	id string
	o  *overlap
	mu sync.Mutex
	c  *box
}

func (p *lockedPresenter) Container() router.Container {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.c == nil {
		p.c = &box{id: p.id}
	}
	return p.c
}

func (p *lockedPresenter) ContainerExists() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.c != nil
}

func (p *lockedPresenter) SetParameters(router.Parameters, router.Container) { p.o.call() }
func (p *lockedPresenter) Unwind(router.Container) { p.o.call() }
func (p *lockedPresenter) PresentModal(modal, over router.Container) { p.o.call() }
func (p *lockedPresenter) DismissModal(router.Container) { p.o.call() }
func (p *lockedPresenter) SetOptionSelected(router.Container) { p.o.call() }

func TestStore_ConcurrentDispatchRunsEffectsOneAtATime(t *testing.T) {
	o := &overlap{}
	x := router.NewEndpoint("x", &lockedPresenter{id: "x", o: o}, exact("x"))
	y := router.NewEndpoint("y", &lockedPresenter{id: "y", o: o}, exact("y"))
	root := router.NewSwitcher("root", &lockedPresenter{id: "root", o: o}, x, y)
	s := router.New(root)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		req := "x"
		if i%2 == 1 {
			req = "y"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(req)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), o.peak.Load())
	assert.GreaterOrEqual(t, o.calls.Load(), int64(16))
	assert.Equal(t, uint64(8), s.Seq())
	assert.Contains(t, []string{"root > x", "root > y"}, s.State().String())
}

// drainer is on context and runs posted work only when drained.
type drainer struct {
	queue
	drains int
}

func (d *drainer) OnContext() bool { return true }

func (d *drainer) Drain() int {
	d.drains++
	n := len(d.fns)
	d.run()
	return n
}

func TestStore_OnContextDrainer(t *testing.T) {
	a := newApp()
	d := &drainer{}
	s := a.store(router.WithExecutor(d))

	s.Dispatch("login")
	assert.Equal(t, 1, d.drains)
	assert.Equal(t, []string{"switch root login", "params login"}, a.rec.take())
}

func TestStore_ReentrantDispatch(t *testing.T) {
	rec := &recorder{}
	var s *router.Store

	next := router.NewEndpoint("next", endpointRec{&base{id: "next", rec: rec}}, exact("next"))
	redirect := &base{id: "redirect", rec: rec}
	hop := router.NewEndpoint("redirect", redirectRec{endpointRec{redirect}, func() { s.Dispatch("next") }}, exact("redirect"))
	root := router.NewSwitcher("root", switcherRec{&base{id: "root", rec: rec}}, hop, next)
	s = router.New(root)

	s.Dispatch("redirect")
	assert.Equal(t, "root > next", s.State().String())
}

type redirectRec struct {
	endpointRec
	onParams func()
}

func (p redirectRec) SetParameters(params router.Parameters, c router.Container) {
	p.endpointRec.SetParameters(params, c)
	p.onParams()
}
