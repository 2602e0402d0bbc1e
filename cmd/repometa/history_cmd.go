package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/repometa"
)

func newCommitsCmd(st *state) *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:     "commits <repository> [ref]",
		Short:   "List commits, newest first",
		Aliases: []string{"log"},
		GroupID: GroupHistory,
		Args:    cobra.RangeArgs(1, 2),
		Example: `  repometa commits group/project
  repometa commits group/project feature-x --page 2 --per-page 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref string
			if len(args) == 2 {
				ref = args[1]
			}

			commits, err := st.app.svc.ListCommits(cmd.Context(), st.project(args[0]), ref, page, perPage)
			if err != nil {
				return err
			}

			return printCommits(cmd.OutOrStdout(), commits)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number, starting at 0")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "Commits per page")

	return cmd
}

func newCompareCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "compare <repository> <target> <source>",
		Short:   "List commits on source that are not on target, oldest first",
		GroupID: GroupHistory,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := st.project(args[0])
			repo, err := st.app.open(project.Path, project.DefaultBranch)
			if err != nil {
				return err
			}

			commits, err := repo.CommitsBetween(args[1], args[2])
			if err != nil {
				return err
			}

			return printCommits(cmd.OutOrStdout(), commits)
		},
	}
}

func newBlobCmd(st *state) *cobra.Command {
	var showType bool

	cmd := &cobra.Command{
		Use:     "blob <repository> <sha> <path>",
		Short:   "Print a file as of a commit",
		GroupID: GroupHistory,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := st.app.svc.GetBlob(cmd.Context(), st.project(args[0]), args[1], args[2])
			if err != nil {
				return err
			}

			if showType {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), blob.ContentType)
				return err
			}
			_, err = cmd.OutOrStdout().Write(blob.Data)
			return err
		},
	}

	cmd.Flags().BoolVar(&showType, "content-type", false, "Print the detected content type instead of the content")

	return cmd
}

func printCommits(out io.Writer, commits []*repometa.Commit) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range commits {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			c.ShortID(), c.AuthorName(), c.CommittedDate().Format("2006-01-02"), c.Title())
	}

	return w.Flush()
}
