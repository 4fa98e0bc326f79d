package router

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/atomic"
)

// Op names a presenter operation issued by the router.
type Op string

const (
	OpSetParameters Op = "set_parameters"
	OpPresentModal  Op = "present_modal"
	OpDismissModal  Op = "dismiss_modal"
	OpUnwind        Op = "unwind"
	OpPrepareRoot   Op = "prepare_root"
	OpSetStack      Op = "set_stack"
	OpSetOptions    Op = "set_options"
	OpSelectOption  Op = "select_option"
)

// Effect describes one presenter call.
type Effect struct {
	Op       Op
	NodeID   string // node whose presenter is called
	TargetID string // modal, option or stack root involved, if any
	Depth    int    // ancestry length within the current presentation branch
}

func (e Effect) String() string {
	if e.TargetID == "" {
		return fmt.Sprintf("%s(%s)", e.Op, e.NodeID)
	}
	return fmt.Sprintf("%s(%s, %s)", e.Op, e.NodeID, e.TargetID)
}

// Observer receives router events for logging and metrics.
//
// OnDispatch runs on the dispatching goroutine; OnEffect and OnContractError
// run wherever effects run (the Executor). Implementations should be fast.
type Observer interface {
	OnDispatch(t Transition)
	OnEffect(e Effect)
	OnContractError(err *ContractError)
	OnRevisit(req Request, nodeID string)
}

// NoopObserver is an Observer that does nothing.
type NoopObserver struct{}

func (NoopObserver) OnDispatch(Transition) {}
func (NoopObserver) OnEffect(Effect) {}
func (NoopObserver) OnContractError(*ContractError) {}
func (NoopObserver) OnRevisit(Request, string) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnDispatch(t Transition) {
	for _, o := range c.observers {
		o.OnDispatch(t)
	}
}

func (c *CompositeObserver) OnEffect(e Effect) {
	for _, o := range c.observers {
		o.OnEffect(e)
	}
}

func (c *CompositeObserver) OnContractError(err *ContractError) {
	for _, o := range c.observers {
		o.OnContractError(err)
	}
}

func (c *CompositeObserver) OnRevisit(req Request, nodeID string) {
	for _, o := range c.observers {
		o.OnRevisit(req, nodeID)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs router events. If logger
// is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnDispatch(t Transition) {
	level := slog.LevelInfo
	if !t.Matched {
		level = slog.LevelWarn
	}
	o.Logger.Log(context.Background(), level, "dispatch",
		slog.Uint64("seq", t.Seq),
		slog.String("request", fmt.Sprint(t.Request)),
		slog.String("flags", t.Flags.String()),
		slog.String("from", t.Previous.String()),
		slog.String("to", t.Current.String()),
		slog.String("anchor", t.Anchor),
		slog.Bool("matched", t.Matched),
	)
}

func (o *LoggingObserver) OnEffect(e Effect) {
	o.Logger.Debug("effect",
		slog.String("op", string(e.Op)),
		slog.String("node", e.NodeID),
		slog.String("target", e.TargetID),
		slog.Int("depth", e.Depth),
	)
}

func (o *LoggingObserver) OnContractError(err *ContractError) {
	o.Logger.Warn("presenter contract violation",
		slog.String("op", err.Op),
		slog.String("node", err.NodeID),
		slog.Any("error", err.Err),
	)
}

func (o *LoggingObserver) OnRevisit(req Request, nodeID string) {
	o.Logger.Warn("node revisited during resolution, tree has a cycle",
		slog.String("request", fmt.Sprint(req)),
		slog.String("node", nodeID),
	)
}

// Metrics counts dispatches and effects. It implements Observer and can be
// combined with LoggingObserver via NewCompositeObserver.
type Metrics struct {
	dispatches     atomic.Int64
	unmatched      atomic.Int64
	effects        atomic.Int64
	presented      atomic.Int64
	dismissed      atomic.Int64
	unwound        atomic.Int64
	contractErrors atomic.Int64
	revisits       atomic.Int64
}

// MetricsSnapshot is an immutable snapshot of Metrics.
type MetricsSnapshot struct {
	Dispatches      int64
	Unmatched       int64
	Effects         int64
	ModalsPresented int64
	ModalsDismissed int64
	Unwound         int64
	ContractErrors  int64
	Revisits        int64
}

func (m *Metrics) OnDispatch(t Transition) {
	m.dispatches.Inc()
	if !t.Matched {
		m.unmatched.Inc()
	}
}

func (m *Metrics) OnEffect(e Effect) {
	m.effects.Inc()
	switch e.Op {
	case OpPresentModal:
		m.presented.Inc()
	case OpDismissModal:
		m.dismissed.Inc()
	case OpUnwind:
		m.unwound.Inc()
	}
}

func (m *Metrics) OnContractError(*ContractError) {
	m.contractErrors.Inc()
}

func (m *Metrics) OnRevisit(Request, string) {
	m.revisits.Inc()
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Dispatches:      m.dispatches.Load(),
		Unmatched:       m.unmatched.Load(),
		Effects:         m.effects.Load(),
		ModalsPresented: m.presented.Load(),
		ModalsDismissed: m.dismissed.Load(),
		Unwound:         m.unwound.Load(),
		ContractErrors:  m.contractErrors.Load(),
		Revisits:        m.revisits.Load(),
	}
}
