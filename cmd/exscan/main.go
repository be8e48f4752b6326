package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bethropolis/exscan/internal/app"
	"github.com/bethropolis/exscan/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(config.Default()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	var application *app.App

	root := &cobra.Command{
		Use:          "exscan",
		Short:        "Check paths and directory trees against scan exclusions",
		Version:      cfg.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Finalize(os.Stderr.Fd())
			a, err := app.New(cfg, os.Stderr)
			if err != nil {
				return err
			}
			application = a
			return nil
		},
	}
	cfg.BindGlobalFlags(root)

	scan := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List the files a scan of dir would visit",
		Args:  cobra.MaximumNArgs(1),
		RunE: closeAfter(&application, func(cmd *cobra.Command, args []string) error {
			dir := cfg.RootDir
			if len(args) == 1 {
				dir = args[0]
			}
			return application.Scan(cmd.Context(), dir, cmd.Flags().Changed)
		}),
	}
	cfg.BindScanFlags(scan)

	check := &cobra.Command{
		Use:   "check PATH...",
		Short: "Show which exclusion, if any, applies to each path",
		Args:  cobra.MinimumNArgs(1),
		RunE: closeAfter(&application, func(cmd *cobra.Command, args []string) error {
			return application.Check(args)
		}),
	}
	cfg.BindCheckFlags(check)

	classify := &cobra.Command{
		Use:   "classify EXCLUSION...",
		Short: "Show how exclusion strings are interpreted",
		Args:  cobra.MinimumNArgs(1),
		RunE: closeAfter(&application, func(cmd *cobra.Command, args []string) error {
			return application.Classify(args)
		}),
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Reload the policy file whenever it changes",
		Args:  cobra.NoArgs,
		RunE: closeAfter(&application, func(cmd *cobra.Command, args []string) error {
			return application.Watch(cmd.Context())
		}),
	}

	root.AddCommand(scan, check, classify, watch)
	return root
}

type runFunc func(cmd *cobra.Command, args []string) error

// closeAfter runs fn and releases the application afterwards, also when fn
// fails: cobra skips post-run hooks on error.
func closeAfter(application **app.App, fn runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if *application == nil {
				return
			}
			if cerr := (*application).Close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args)
	}
}
