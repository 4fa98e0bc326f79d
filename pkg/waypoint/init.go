// Package waypoint wires the navigation router into a program: logging,
// configuration, input bindings and a Store that reports to the internal
// logger.
//
// The router itself lives in package router. A typical program builds its
// tree (by hand or with package tree), calls Init, creates a Store with
// NewStore and feeds it requests from input sources:
//
//	cfg, err := waypoint.LoadConfig("waypoint.toml")
//	...
//	waypoint.Init(waypoint.Options{Config: cfg})
//	defer waypoint.Close()
//
//	store := waypoint.NewStore(root, cfg, waypoint.StoreOptions{Executor: loop})
package waypoint

import (
	"log/slog"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/constants"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/input"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// Options configures waypoint initialization.
type Options struct {
	Config         *Config // Runtime configuration; environment overrides are applied to it
	LogPath        string  // Full path for log file including filename (overrides Config.LogPath)
	LogLevel       string  // Application log level name (overrides Config.LogLevel)
	RouterLogLevel string  // Router event log level name; "info" logs every dispatch
	RouterDebug    bool    // Log every router effect, not only dispatches and problems
}

// Init sets up logging. Call it before any logger is used.
func Init(options Options) {
	cfg := options.Config
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.ApplyEnv()

	switch {
	case options.LogPath != "":
		internal.SetLogPath(options.LogPath)
	case cfg.LogPath != "":
		internal.SetLogPath(cfg.LogPath)
	}

	level := cfg.LogLevel
	if options.LogLevel != "" {
		level = options.LogLevel
	}
	internal.SetRawLogLevel(level)

	switch {
	case options.RouterDebug || constants.IsDevMode():
		internal.SetInternalLogLevel(slog.LevelDebug)
	case options.RouterLogLevel != "":
		routerLevel, _ := internal.ParseLevel(options.RouterLogLevel)
		internal.SetInternalLogLevel(routerLevel)
	default:
		internal.SetInternalLogLevel(slog.LevelInfo)
	}
}

// Close flushes and closes the log file.
func Close() {
	internal.CloseLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories.
// Call before Init() to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// GetRouterLogger returns the logger router events are written to.
func GetRouterLogger() *slog.Logger {
	return internal.GetInternalLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}

// StoreOptions adds to the Store that NewStore builds.
type StoreOptions struct {
	Executor  router.Executor   // Context effects run on; router.Immediate when nil
	Observers []router.Observer // Extra observers alongside the logging observer
	State     router.Chain      // Already presented chain to start from
}

// NewStore creates a Store for root that logs to the router logger and
// honors cfg. When cfg names an initial request it is dispatched before
// NewStore returns.
func NewStore(root router.Node, cfg *Config, so StoreOptions) *router.Store {
	if cfg == nil {
		cfg = &Config{}
	}
	observers := append([]router.Observer{router.NewLoggingObserver(GetRouterLogger())}, so.Observers...)

	opts := []router.Option{
		router.WithObserver(router.NewCompositeObserver(observers...)),
		router.WithExecutor(so.Executor),
	}
	if so.State != nil {
		opts = append(opts, router.WithState(so.State))
	}
	if cfg.IgnoreUnmatched {
		opts = append(opts, router.WithIgnoreUnmatched())
	}

	store := router.New(root, opts...)
	if cfg.InitialRequest != "" {
		store.Dispatch(cfg.InitialRequest)
	}
	return store
}

// NewInputHandler creates an input.Handler for store from the bindings and
// input delay in cfg.
func NewInputHandler(store input.Dispatcher, cfg *Config) (*input.Handler, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	bindings, err := cfg.InputBindings()
	if err != nil {
		return nil, err
	}
	return input.NewHandler(store, bindings,
		input.WithInputDelay(cfg.InputDelay()),
		input.WithLogger(GetRouterLogger()),
	), nil
}
