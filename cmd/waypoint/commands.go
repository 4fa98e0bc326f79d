package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/tree"
)

var version = "0.1.0-dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "waypoint",
		Short:        "Inspect waypoint navigation trees",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			waypoint.Init(waypoint.Options{LogLevel: level, RouterLogLevel: level})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			waypoint.Close()
		},
		Long: `waypoint loads a navigation tree definition (TOML or YAML) and either
validates it or traces the presenter effects a sequence of requests
would cause, using presenters that only record what they are asked to do.`,
	}

	rootCmd.PersistentFlags().String("log-level", "error", "Log level for application and router logs")

	validateCmd := &cobra.Command{
		Use:   "validate <tree>",
		Short: "Check a tree definition",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	traceCmd := &cobra.Command{
		Use:   "trace <tree> <request>...",
		Short: "Dispatch requests against a tree and print the effects",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runTrace,
	}
	traceCmd.Flags().Bool("junctions-only", false, "Dispatch with the junctions-only flag")
	traceCmd.Flags().Bool("ignore-unmatched", false, "Leave the state untouched when a request matches nothing")
	traceCmd.Flags().String("config", "", "waypoint.toml to read ignore_unmatched and initial_request from")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	rootCmd.AddCommand(validateCmd, traceCmd, versionCmd)
	return rootCmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	built, err := tree.LoadAndBuild(args[0], recordingRegistry())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ok: %d nodes, root %q\n", built.Index.Len(), built.Root.ID())
	if shared := built.Index.Shared(); len(shared) > 0 {
		fmt.Fprintf(out, "shared: %s\n", strings.Join(shared, ", "))
	}
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	built, err := tree.LoadAndBuild(args[0], recordingRegistry())
	if err != nil {
		return err
	}

	cfg := &waypoint.Config{}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if cfg, err = waypoint.LoadConfig(path); err != nil {
			return err
		}
	}
	if ignore, _ := cmd.Flags().GetBool("ignore-unmatched"); ignore {
		cfg.IgnoreUnmatched = true
	}
	var flags router.Flags
	if junctions, _ := cmd.Flags().GetBool("junctions-only"); junctions {
		flags |= router.JunctionsOnly
	}

	out := cmd.OutOrStdout()
	tracer := &tracer{out: out}
	if cfg.InitialRequest != "" {
		fmt.Fprintf(out, "> %s (initial)\n", cfg.InitialRequest)
	}
	store := waypoint.NewStore(built.Root, cfg, waypoint.StoreOptions{
		Observers: []router.Observer{tracer},
	})
	for _, req := range args[1:] {
		fmt.Fprintf(out, "> %s\n", req)
		store.Dispatch(req, flags)
	}
	return nil
}

// tracer prints effects and the resulting chain of every dispatch.
type tracer struct {
	router.NoopObserver
	out io.Writer
}

func (t *tracer) OnEffect(e router.Effect) {
	fmt.Fprintf(t.out, "  %s\n", e)
}

func (t *tracer) OnDispatch(tr router.Transition) {
	if !tr.Matched {
		fmt.Fprintf(t.out, "  no match, state %q\n", tr.Current.String())
		return
	}
	fmt.Fprintf(t.out, "  = %s\n", tr.Current)
}

func (t *tracer) OnContractError(err *router.ContractError) {
	fmt.Fprintf(t.out, "  ! %v\n", err)
}

// recordingRegistry supplies a presenter for every key whose containers are
// the keys themselves.
func recordingRegistry() tree.Registry {
	return tree.RegistryFunc(func(kind router.Kind, key string) (router.Presenter, bool) {
		lazy := router.NewLazy(key, func() router.Container { return key })
		switch kind {
		case router.KindEndpoint:
			return &router.EndpointFuncs{Lazy: lazy}, true
		case router.KindStack:
			return &router.StackFuncs{Lazy: lazy}, true
		case router.KindFork:
			return &router.ForkFuncs{Lazy: lazy}, true
		case router.KindSwitcher:
			return &router.SwitcherFuncs{Lazy: lazy}, true
		}
		return nil, false
	})
}
