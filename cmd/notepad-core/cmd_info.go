package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newInfoCmd creates the info subcommand.
func newInfoCmd(a *app) *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Show the detected encoding and size of a file",
		Long: `Show the encoding, byte order mark, line ending style, line count and
character count of FILE. Use --encoding to decode with a given encoding
instead of detecting one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			override, err := parseEncoding(encoding)
			if err != nil {
				return err
			}
			doc, err := a.open(cmd.Context(), args[0], override)
			if err != nil {
				return err
			}

			desc := doc.Descriptor()
			bom := "no"
			if desc.BOM {
				bom = "yes"
			}
			fmt.Fprintf(a.stdout, "File:        %s\n", doc.Path())
			fmt.Fprintf(a.stdout, "Encoding:    %s\n", desc.Encoding.Label())
			fmt.Fprintf(a.stdout, "BOM:         %s\n", bom)
			fmt.Fprintf(a.stdout, "Line ending: %s\n", desc.LineEnding.Label())
			fmt.Fprintf(a.stdout, "Lines:       %d\n", doc.LineCount())
			fmt.Fprintf(a.stdout, "Characters:  %d\n", doc.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "", "decode with this encoding instead of detecting it")
	return cmd
}
