package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ishibashi-futos/notepad-macos/internal/charset"
	"github.com/ishibashi-futos/notepad-macos/internal/task"
)

// newConvertCmd creates the convert subcommand.
func newConvertCmd(a *app) *cobra.Command {
	var (
		to         string
		lineEnding string
		bom        bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Re-encode a file",
		Long: `Load FILE with encoding detection and write it back with the encoding
given by --to. The line ending style is kept unless --line-ending is set.
The file is replaced atomically; use -o to write elsewhere.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := charset.ParseName(to)
			if err != nil {
				return fmt.Errorf("invalid encoding %q: %w", to, err)
			}

			doc, err := a.open(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}

			desc := doc.Descriptor()
			desc.Encoding = target
			desc.BOM = bom
			if lineEnding != "" {
				if desc.LineEnding, err = charset.ParseLineEnding(lineEnding); err != nil {
					return err
				}
			}
			if output == "" {
				output = args[0]
			}

			snap, err := doc.BeginSave()
			if err != nil {
				return err
			}
			tok := task.NewToken(cmd.Context())
			defer tok.Cancel()

			msg := <-task.Save(a.coord, doc, snap, output, desc, tok)
			saveErr := outcome(msg.Status, msg.Err)
			if err := doc.FinishSave(msg.Value, saveErr); err != nil {
				return err
			}
			if saveErr != nil {
				return saveErr
			}

			a.log.Info("file converted",
				zap.String("from", args[0]),
				zap.String("to", output),
				zap.Stringer("descriptor", desc),
				zap.Int64("bytes", msg.Value.Bytes),
			)
			fmt.Fprintf(a.stdout, "Wrote %d bytes to %s (%s)\n", msg.Value.Bytes, output, desc)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target encoding")
	cmd.Flags().StringVar(&lineEnding, "line-ending", "", "target line ending (lf, crlf, cr)")
	cmd.Flags().BoolVar(&bom, "bom", false, "write a byte order mark")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: replace FILE)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
