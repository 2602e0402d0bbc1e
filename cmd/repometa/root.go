package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/repometa/internal/config"
	"github.com/jmgilman/go/repometa/service"
)

// Command group IDs for organizing help output
const (
	GroupRefs    = "refs"
	GroupHistory = "history"
	GroupCache   = "cache"
)

// state carries global flags and the application built from them.
type state struct {
	configPath    string
	logLevel      string
	storageRoot   string
	defaultBranch string
	metricsFile   string

	app *app
}

// project builds the service project for a repository argument.
func (s *state) project(identifier string) service.Project {
	branch := s.defaultBranch
	if branch == "" {
		branch = s.app.cfg.DefaultBranch
	}

	return service.Project{ID: identifier, Path: identifier, DefaultBranch: branch}
}

func newRootCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repometa",
		Short: "Cached git repository metadata",
		Long: `repometa reads branch, tag and commit metadata from git repositories
stored under a common root, caching expensive lookups.

Branch and tag mutations are queued to a worker pool. The command waits for
queued work to finish before exiting.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		Version:                    versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			cfg, err := config.Load(st.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if st.logLevel != "" {
				cfg.LogLevel = st.logLevel
			}
			if st.storageRoot != "" {
				cfg.StorageRoot = st.storageRoot
			}

			a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			st.app = a
			return nil
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVarP(&st.configPath, "config", "c", "", "Config file (default ~/.config/repometa/config.toml)")
	flags.StringVar(&st.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&st.storageRoot, "storage-root", "", "Directory repositories are stored under")
	flags.StringVar(&st.defaultBranch, "default-branch", "", "Default branch of the repository")
	flags.StringVar(&st.metricsFile, "metrics-file", "", "Write cache metrics to this file in Prometheus text format")

	cmd.AddGroup(
		&cobra.Group{ID: GroupRefs, Title: "Ref Commands:"},
		&cobra.Group{ID: GroupHistory, Title: "History Commands:"},
		&cobra.Group{ID: GroupCache, Title: "Cache Commands:"},
	)

	cmd.AddCommand(newBranchesCmd(st))
	cmd.AddCommand(newTagsCmd(st))
	cmd.AddCommand(newCommitsCmd(st))
	cmd.AddCommand(newCompareCmd(st))
	cmd.AddCommand(newBlobCmd(st))
	cmd.AddCommand(newSizeCmd(st))
	cmd.AddCommand(newExpireCacheCmd(st))

	return cmd
}

// run executes the command line in args, then drains queued mutations and
// releases the application.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	st := &state{}
	root := newRootCmd(st)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if st.app != nil {
		err = errors.Join(err, st.app.Close(st.metricsFile))
	}

	return err
}
