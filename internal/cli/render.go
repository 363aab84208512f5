package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sigpad/pkg/ink"
	"github.com/matzehuels/sigpad/pkg/render"
)

// surfaceFlags holds the surface geometry shared by render and export.
type surfaceFlags struct {
	width  float64
	height float64
	ratio  float64
}

func (f *surfaceFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "logical surface width (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "logical surface height (default from config)")
	cmd.Flags().Float64Var(&f.ratio, "ratio", 0, "device pixel ratio (default from config)")
}

// resolve fills unset values from the config.
func (f surfaceFlags) resolve(size render.Size, ratio float64) (render.Size, float64) {
	if f.width > 0 {
		size.Width = f.width
	}
	if f.height > 0 {
		size.Height = f.height
	}
	if f.ratio > 0 {
		ratio = f.ratio
	}
	return size, ratio
}

// loadPad replays a JSON-lines event recording into a new pad.
func loadPad(path string) (*ink.Pad, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	events, err := ink.ReadEvents(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	pad := ink.NewPad()
	ignored := ink.Replay(pad, events)
	return pad, ignored, nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		surface surfaceFlags
	)

	cmd := &cobra.Command{
		Use:   "render <events.jsonl>",
		Short: "Render a recorded signature onto the live surface",
		Long: `Render replays pointer events onto a live drawing surface and writes it as PNG.

The surface is sized width*ratio x height*ratio pixels and includes any stroke
still in progress at the end of the recording.`,
		Example: `  sigpad render signature.jsonl -o live.png
  sigpad render signature.jsonl --width 800 --height 250 --ratio 2`,
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
			size, ratio := surface.resolve(cfg.Pad.Size(), cfg.Pad.Ratio)

			pad, ignored, err := loadPad(args[0])
			if err != nil {
				return err
			}
			if ignored > 0 {
				c.Logger.Debug("events ignored", "count", ignored)
			}

			canvas := render.NewCanvas(pad, size, ratio, style)
			canvas.SetLogger(c.Logger)

			var buf bytes.Buffer
			if err := canvas.Surface().EncodePNG(&buf); err != nil {
				return fmt.Errorf("encode png: %w", err)
			}
			if output == "" {
				output = "signature.png"
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return err
			}

			w, h := canvas.Surface().PixelSize()
			printSuccess("Rendered %d strokes (%dx%d px)", pad.Len(), w, h)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: signature.png)")
	surface.register(cmd)

	return cmd
}
