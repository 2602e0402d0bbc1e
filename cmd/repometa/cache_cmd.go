package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSizeCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "size <repository>",
		Short:   "Print the repository size in megabytes",
		GroupID: GroupCache,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := st.project(args[0])
			repo, err := st.app.open(project.Path, project.DefaultBranch)
			if err != nil {
				return err
			}

			size, err := repo.Size(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%.2f MB\n", size)
			return nil
		},
	}
}

func newExpireCacheCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "expire-cache <repository>",
		Short:   "Drop cached size, branch and tag names",
		GroupID: GroupCache,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := st.project(args[0])
			repo, err := st.app.open(project.Path, project.DefaultBranch)
			if err != nil {
				return err
			}

			if err := repo.ExpireCache(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "expired cache for %s\n", project.Path)
			return nil
		},
	}
}
