package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/repometa/executor"
	"github.com/jmgilman/go/repometa/service"
)

func newBranchesCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branches",
		Short:   "Manage repository branches",
		Aliases: []string{"branch", "br"},
		GroupID: GroupRefs,
		Example: `  repometa branches list group/project
  repometa branches create group/project feature-x main
  repometa branches protect group/project main
  repometa branches search group/project feat`,
	}

	cmd.AddCommand(newBranchesListCmd(st))
	cmd.AddCommand(newBranchesGetCmd(st))
	cmd.AddCommand(newBranchesCreateCmd(st))
	cmd.AddCommand(newBranchesDeleteCmd(st))
	cmd.AddCommand(newBranchesProtectCmd(st, true))
	cmd.AddCommand(newBranchesProtectCmd(st, false))
	cmd.AddCommand(newBranchesSearchCmd(st))

	return cmd
}

func newBranchesListCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "list <repository>",
		Short:   "List branches",
		Aliases: []string{"ls"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branches, err := st.app.svc.ListBranches(cmd.Context(), st.project(args[0]))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, b := range branches {
				printBranch(w, b)
			}
			return w.Flush()
		},
	}
}

func newBranchesGetCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "get <repository> <branch>",
		Short: "Show a branch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := st.app.svc.GetBranch(cmd.Context(), st.project(args[0]), args[1])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			printBranch(w, b)
			return w.Flush()
		},
	}
}

func newBranchesCreateCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "create <repository> <branch> <ref>",
		Short: "Create a branch at ref",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			queued, err := st.app.svc.CreateBranch(cmd.Context(), st.project(args[0]), args[1], args[2])
			if err != nil {
				return err
			}

			printQueued(cmd, queued)
			return nil
		},
	}
}

func newBranchesDeleteCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <repository> <branch>",
		Short:   "Delete a branch",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			queued, err := st.app.svc.DeleteBranch(cmd.Context(), st.project(args[0]), args[1])
			if err != nil {
				return err
			}

			printQueued(cmd, queued)
			return nil
		},
	}
}

func newBranchesProtectCmd(st *state, protect bool) *cobra.Command {
	use, short := "protect", "Protect a branch"
	if !protect {
		use, short = "unprotect", "Remove branch protection"
	}

	return &cobra.Command{
		Use:   use + " <repository> <branch>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := st.app.svc.UnprotectBranch
			if protect {
				op = st.app.svc.ProtectBranch
			}

			b, err := op(cmd.Context(), st.project(args[0]), args[1])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			printBranch(w, b)
			return w.Flush()
		},
	}
}

func newBranchesSearchCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "search <repository> [query]",
		Short: "Fuzzy search branch names",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 2 {
				query = args[1]
			}

			names, err := st.app.svc.SearchBranches(cmd.Context(), st.project(args[0]), query)
			if err != nil {
				return err
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func printBranch(w *tabwriter.Writer, b service.Branch) {
	var flag string
	if b.Protected {
		flag = "protected"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", b.Name, b.Commit, flag)
}

func printQueued(cmd *cobra.Command, queued executor.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "queued %s (%s)\n", queued, queued.ID)
}
