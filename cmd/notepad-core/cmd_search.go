package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishibashi-futos/notepad-macos/internal/search"
	"github.com/ishibashi-futos/notepad-macos/internal/task"
)

// newSearchCmd creates the search subcommand.
func newSearchCmd(a *app) *cobra.Command {
	var ignoreCase bool

	cmd := &cobra.Command{
		Use:   "search FILE QUERY",
		Short: "Print the position of every match",
		Long: `Search FILE for QUERY and print line:column of each non-overlapping
match. Lines and columns are 1-based; columns count characters.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}

			tok := task.NewToken(cmd.Context())
			defer tok.Cancel()

			opts := search.Options{IgnoreCase: ignoreCase}
			msg := <-task.Search(a.coord, doc, doc.Snapshot(), args[1], opts, tok)
			if err := outcome(msg.Status, msg.Err); err != nil {
				return err
			}

			for _, off := range msg.Value.Matches {
				p, err := doc.PointAt(off)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%d:%d\n", p.Line+1, p.Column+1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "match case-insensitively")
	return cmd
}
