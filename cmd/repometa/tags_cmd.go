package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTagsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Short:   "Manage repository tags",
		Aliases: []string{"tag"},
		GroupID: GroupRefs,
		Example: `  repometa tags list group/project
  repometa tags create group/project v1.0.0 main -m "Release 1.0.0"
  repometa tags delete group/project v1.0.0`,
	}

	cmd.AddCommand(newTagsListCmd(st))
	cmd.AddCommand(newTagsCreateCmd(st))
	cmd.AddCommand(newTagsDeleteCmd(st))

	return cmd
}

func newTagsListCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "list <repository>",
		Short:   "List tags, newest name first",
		Aliases: []string{"ls"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := st.app.svc.ListTags(cmd.Context(), st.project(args[0]))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, t := range tags {
				title, _, _ := strings.Cut(t.Message, "\n")
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.Commit, title)
			}
			return w.Flush()
		},
	}
}

func newTagsCreateCmd(st *state) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "create <repository> <tag> <ref>",
		Short: "Create a tag at ref",
		Long: `Create a tag at ref.

With --message the tag is annotated, otherwise it is lightweight.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			queued, err := st.app.svc.CreateTag(cmd.Context(), st.project(args[0]), args[1], args[2], message)
			if err != nil {
				return err
			}

			printQueued(cmd, queued)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Annotation message")

	return cmd
}

func newTagsDeleteCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <repository> <tag>",
		Short:   "Delete a tag",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			queued, err := st.app.svc.DeleteTag(cmd.Context(), st.project(args[0]), args[1])
			if err != nil {
				return err
			}

			printQueued(cmd, queued)
			return nil
		},
	}
}
