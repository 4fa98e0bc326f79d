package router

import (
	"sync"

	"go.uber.org/atomic"
)

// Executor is the affinity context presenter effects run on, conventionally
// the UI thread.
type Executor interface {
	// OnContext reports whether the calling goroutine is already on the
	// executor's context.
	OnContext() bool

	// Post schedules fn to run on the context. Posted functions run in the
	// order they were posted.
	Post(fn func())
}

// Drainer is implemented by executors that can run everything posted so far
// from the calling goroutine when it is on context.
type Drainer interface {
	Drain() int
}

// Immediate runs effects on the dispatching goroutine. It is the default
// executor. The Store still runs one dispatch's effects at a time.
type Immediate struct{}

func (Immediate) OnContext() bool { return true }
func (Immediate) Post(fn func()) { fn() }

// Transition is the before/after record of one dispatch.
type Transition struct {
	Seq      uint64
	Request  Request
	Flags    Flags
	Previous Chain
	Pruned   Chain
	Current  Chain
	Matched  bool
	Anchor   string
}

// Changed reports whether the active chain differs from the one before the
// dispatch.
func (t Transition) Changed() bool {
	return !t.Previous.Equal(t.Current)
}

// Store holds the active chain for a tree and serializes dispatches. Every
// request goes through Dispatch, which reduces, records the new chain and
// hands the presenter effects to the Executor.
type Store struct {
	root            Node
	executor        Executor
	observer        Observer
	ignoreUnmatched bool

	mu      sync.Mutex
	state   Chain
	pending []func() // inline effects waiting for the running goroutine
	running bool
	seq     atomic.Uint64

	// modals shown when the last executed plan finished; only touched by
	// effect code
	presented map[string]Node
}

// Option configures a Store.
type Option func(*Store)

// WithExecutor sets the context presenter effects run on.
func WithExecutor(e Executor) Option {
	return func(s *Store) {
		if e != nil {
			s.executor = e
		}
	}
}

// WithObserver sets the event sink for dispatches, effects and contract errors.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithState seeds the active chain, e.g. when the UI was restored by the
// platform before the store existed.
func WithState(c Chain) Option {
	return func(s *Store) {
		s.state = c
	}
}

// WithIgnoreUnmatched leaves state and UI untouched when a request matches
// nothing, instead of unwinding everything.
func WithIgnoreUnmatched() Option {
	return func(s *Store) {
		s.ignoreUnmatched = true
	}
}

// New creates a Store for the tree rooted at root.
func New(root Node, opts ...Option) *Store {
	s := &Store{
		root:     root,
		executor: Immediate{},
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.presented = s.state.modalHosts(nil)
	return s
}

// Root returns the tree the store navigates.
func (s *Store) Root() Node {
	return s.root
}

// State returns the current active chain.
func (s *Store) State() Chain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Seq returns the number of dispatches accepted so far.
func (s *Store) Seq() uint64 {
	return s.seq.Load()
}

// Dispatch navigates to req. The new chain is computed and stored before
// Dispatch returns. Effects are posted to the executor in dispatch order when
// called off its context. On context they run on the calling goroutine, unless
// another dispatch's effects are already running there; then they are queued
// and run by that goroutine once it is done, so effect phases never overlap.
//
// Dispatch may be called again from inside a presenter callback; the nested
// request is reduced against the chain the outer dispatch stored and its
// effects run after the outer ones.
func (s *Store) Dispatch(req Request, flags ...Flags) Transition {
	f := combine(flags)

	s.mu.Lock()
	plan := Reduce(s.root, s.state, req, f)
	t := Transition{
		Request:  req,
		Flags:    f,
		Previous: plan.Previous,
		Pruned:   plan.Pruned,
		Current:  plan.Next,
		Matched:  plan.Matched,
		Anchor:   plan.Anchor,
	}
	ignored := !plan.Matched && s.ignoreUnmatched
	if ignored {
		t.Current = plan.Previous
	} else {
		s.state = plan.Next
	}
	t.Seq = s.seq.Inc()

	for _, id := range plan.Revisited {
		s.observer.OnRevisit(req, id)
	}
	s.observer.OnDispatch(t)

	if ignored {
		s.mu.Unlock()
		return t
	}

	run := func() {
		_, s.presented = plan.execute(s.observer, s.presented)
	}
	if !s.executor.OnContext() {
		// posting under the lock keeps effects in dispatch order
		s.executor.Post(run)
		s.mu.Unlock()
		return t
	}

	if d, ok := s.executor.(Drainer); ok {
		s.executor.Post(run)
		s.mu.Unlock()
		d.Drain()
		return t
	}

	s.pending = append(s.pending, run)
	if s.running {
		s.mu.Unlock()
		return t
	}
	s.running = true
	s.mu.Unlock()
	s.runPending()
	return t
}

// runPending runs queued inline effects until none are left.
func (s *Store) runPending() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}
		fn := s.pending[0]
		s.pending[0] = nil
		s.pending = s.pending[1:]
		s.mu.Unlock()

		fn()
	}
}
