package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bjaus/fconv"
)

// NewDetectCommand creates the detect command.
func (a *App) NewDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect FILE...",
		Short: "Print the detected format of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				f := a.Converter().Detect(path)
				line := path + "\t" + f.String()
				if f == fconv.Code {
					if lang := fconv.Language(path); lang != "" {
						line += "\t" + lang
					}
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// NewPreviewCommand creates the preview command.
func (a *App) NewPreviewCommand() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Show the first rows or lines of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.Converter().Load(args[0])
			if err != nil {
				return err
			}
			a.Logger().Debug().
				Str("path", doc.Path).
				Str("format", doc.Format.String()).
				Str("shape", doc.Value.Shape().String()).
				Msg("loaded")
			return a.Converter().PreviewDocument(cmd.OutOrStdout(), doc, rows)
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", fconv.DefaultPreviewRows, "number of rows or lines to show")
	return cmd
}

// NewConvertCommand creates the convert command.
func (a *App) NewConvertCommand() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Convert SRC and write it to DST",
		Long: `Convert reads SRC in its detected format and writes it to DST.

The target format comes from --to, else from the extension of DST.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			target, err := targetFormat(to, dst)
			if err != nil {
				return err
			}
			if err := a.Converter().Convert(src, dst, target); err != nil {
				return err
			}
			a.Logger().Debug().Str("dst", dst).Str("format", target.String()).Msg("file saved")
			return nil
		},
	}
	cmd.Flags().StringVarP(&to, "to", "t", "", "target format (default from DST extension)")
	return cmd
}

// NewFormatsCommand creates the formats command.
func (a *App) NewFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats [FILE]",
		Short: "List formats, or the legal targets for FILE",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				from := a.Converter().Detect(args[0])
				_, err := fmt.Fprintln(out, joinFormats(fconv.LegalTargets(from)))
				return err
			}
			for _, f := range fconv.Formats() {
				mode := "read/write"
				if !f.Writable() {
					mode = "read"
				}
				if _, err := fmt.Fprintf(out, "%-6s %s\n", f, mode); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// targetFormat resolves the --to flag, falling back to the extension of dst.
func targetFormat(to, dst string) (fconv.Format, error) {
	if to != "" {
		return fconv.ParseFormat(to)
	}
	ext := filepath.Ext(dst)
	if f, ok := fconv.FormatForExt(ext); ok && f.Writable() {
		return f, nil
	}
	return "", fmt.Errorf("%w: cannot infer target from %q, use --to", fconv.ErrUnsupportedFormat, dst)
}

func joinFormats(fs []fconv.Format) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}
	return strings.Join(names, " ")
}
