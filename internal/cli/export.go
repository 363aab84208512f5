package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sigpad/pkg/export"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output   string
		maxWidth int
		dataURI  bool
		surface  surfaceFlags
	)

	cmd := &cobra.Command{
		Use:   "export <events.jsonl>",
		Short: "Export a recorded signature at a bounded width",
		Long: `Export rasterizes the closed strokes of a recording on a white background.

Signatures wider than --max-width are scaled down; narrower ones keep their size.
With --data-uri the image is printed as a base64 data URI instead of written
to a file.`,
		Example: `  sigpad export signature.jsonl -o signature.png
  sigpad export signature.jsonl --max-width 300 --data-uri`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRecording,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			style, err := cfg.Pad.Style()
			if err != nil {
				return err
			}
			size, _ := surface.resolve(cfg.Pad.Size(), cfg.Pad.Ratio)
			if maxWidth <= 0 {
				maxWidth = cfg.Export.MaxWidth
			}

			pad, _, err := loadPad(args[0])
			if err != nil {
				return err
			}
			if pad.Len() == 0 {
				printWarning("Recording has no closed strokes; exporting a blank image")
			}

			exp := export.New(maxWidth)
			exp.Style = style
			art, err := exp.Export(pad.Snapshot(), size)
			if err != nil {
				return err
			}

			if dataURI {
				fmt.Fprintln(cmd.OutOrStdout(), art.DataURI())
				return nil
			}
			if output == "" {
				output = "signature" + art.Extension()
			}
			if err := os.WriteFile(output, art.Bytes, 0o644); err != nil {
				return err
			}
			printSuccess("Exported %dx%d %s (scale %.2f)", art.Width, art.Height, art.MimeType, exp.Scale(size.Width))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: signature.png)")
	cmd.Flags().IntVar(&maxWidth, "max-width", 0, "maximum output width in pixels (default from config)")
	cmd.Flags().BoolVar(&dataURI, "data-uri", false, "print a data URI instead of writing a file")
	surface.register(cmd)

	return cmd
}
