// Package cli wires stashwalk's command line to the session action.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stashwalk.dev/stashwalk/internal/actions"
	"stashwalk.dev/stashwalk/internal/runtime"
)

// rootOptions holds the values of the root command's flags
type rootOptions struct {
	dir           string
	namespace     string
	color         string
	logFile       string
	verbose       bool
	stayOnFailure bool
	start         int
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "stashwalk",
		Short: "Review the stash list one entry at a time",
		Long: `Review the stash list one entry at a time.

Each stash is shown as a patch, most recent first. For every stash choose to
drop it, commit it to its own branch under the stash namespace, skip it,
apply it, or quit. Promoting a stash to a branch is undone completely if any
step fails, and requires a clean working tree.`,
		Version:      fmt.Sprintf("%s (%s, %s)", version, commit, date),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}
	rootCmd.SetVersionTemplate("stashwalk {{.Version}}\n")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.dir, "directory", "C", ".", "run as if started in this directory")
	flags.StringVar(&opts.namespace, "namespace", "", "branch namespace for promoted stashes (default \"stash\")")
	flags.StringVar(&opts.color, "color", "", "colorize output: auto, always or never")
	flags.StringVar(&opts.logFile, "log-file", "", "also write a detailed log to this file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print every git command")
	flags.BoolVar(&opts.stayOnFailure, "stay-on-failure", false, "stay on a stash whose promotion was rolled back")
	flags.IntVar(&opts.start, "start", 0, "start reviewing at stash@{N}")

	return rootCmd
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	if opts.start < 0 {
		return fmt.Errorf("--start must not be negative")
	}

	sessionCtx, interrupts := notifyInterrupts(cmd.Context())
	defer interrupts.close()

	ctx, err := runtime.GetContext(sessionCtx, runtime.Options{
		Dir:           opts.dir,
		Namespace:     opts.namespace,
		Color:         opts.color,
		LogFile:       opts.logFile,
		Verbose:       opts.verbose,
		StayOnFailure: opts.stayOnFailure,
		In:            cmd.InOrStdin(),
		Out:           cmd.OutOrStdout(),
		Err:           cmd.ErrOrStderr(),
		InputHook:     interrupts.suspend,
	})
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Close() }()

	_, err = actions.SessionAction(ctx, actions.SessionOptions{StartAt: opts.start})
	return err
}
