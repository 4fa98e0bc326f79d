// Package mainthread provides a router.Executor bound to one OS thread.
//
// SDL and most native UI toolkits must be driven from the thread that
// initialised them. A Loop is bound to that thread and presenter effects
// posted from other goroutines queue up until the thread drains them, either
// once per frame with Drain or by blocking in Run.
package mainthread

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/atomic"
)

// ErrNotBound is returned when an operation needs a thread-bound Loop.
var ErrNotBound = errors.New("mainthread: loop is not bound to a thread")

// Loop is an unbounded FIFO of functions run on a single OS thread.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}

	owner    atomic.Int64
	bound    atomic.Bool
	draining atomic.Bool
}

func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Bind locks the calling goroutine to its OS thread and makes that thread
// the loop's context. Call Unbind from the same goroutine when done.
func (l *Loop) Bind() {
	runtime.LockOSThread()
	l.owner.Store(currentThread())
	l.bound.Store(true)
}

func (l *Loop) Unbind() {
	l.bound.Store(false)
	l.owner.Store(0)
	runtime.UnlockOSThread()
}

// Bound reports whether a thread is bound to the loop.
func (l *Loop) Bound() bool {
	return l.bound.Load()
}

// Check returns ErrNotBound when no thread is bound to the loop.
func (l *Loop) Check() error {
	if !l.bound.Load() {
		return ErrNotBound
	}
	return nil
}

// OnContext reports whether the caller runs on the bound thread. It is
// always false on platforms without thread identities, where every effect
// goes through the queue.
func (l *Loop) OnContext() bool {
	owner := l.owner.Load()
	return owner != 0 && owner == currentThread()
}

// Post queues fn. It never blocks.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued functions.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Drain runs queued functions until the queue is empty, including any
// posted while draining, and returns how many ran. A nested call from inside
// a running function returns 0 immediately; the outer Drain picks up the
// new work.
func (l *Loop) Drain() int {
	if !l.draining.CompareAndSwap(false, true) {
		return 0
	}
	defer l.draining.Store(false)

	ran := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// Run binds the loop to the calling goroutine's thread and drains posted
// functions as they arrive until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	l.Bind()
	defer l.Unbind()

	for {
		l.Drain()
		select {
		case <-ctx.Done():
			l.Drain()
			return ctx.Err()
		case <-l.wake:
		}
	}
}
