package cli

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/ink"
	"github.com/matzehuels/sigpad/pkg/render"
)

// Pad area placement inside the view: title and help lines, then the box
// border.
const (
	padTop  = 3
	padLeft = 1

	minPadCols = 20
	minPadRows = 5
)

var (
	padBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	padInkStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	padHelpStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// padModel - Interactive signature capture
// =============================================================================

// padModel captures a signature with the mouse. Each terminal cell maps to
// a rectangle of the logical surface; the preview is drawn in braille from
// the live surface raster.
type padModel struct {
	canvas *render.Canvas
	cols   int
	rows   int

	saved   bool
	applied int
}

func newPadModel(canvas *render.Canvas, cols, rows int) padModel {
	return padModel{
		canvas: canvas,
		cols:   max(minPadCols, cols),
		rows:   max(minPadRows, rows),
	}
}

func (m padModel) Init() tea.Cmd {
	return nil
}

func (m padModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		pad := m.canvas.Pad()
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "u":
			pad.Undo()
		case "c":
			pad.Clear()
		case "enter", "s":
			m.saved = true
			return m, tea.Quit
		}
	case tea.MouseMsg:
		if e, ok := m.pointerEvent(msg); ok && ink.Apply(m.canvas.Pad(), e) {
			m.applied++
		}
	case tea.WindowSizeMsg:
		m.cols = max(minPadCols, msg.Width-2*padLeft)
		m.rows = max(minPadRows, msg.Height-padTop-2)
	}
	return m, nil
}

// pointerEvent translates a terminal mouse event into a pointer event in
// logical surface coordinates. Leaving the pad area while drawing ends the
// stroke.
func (m padModel) pointerEvent(msg tea.MouseMsg) (ink.Event, bool) {
	col, row := msg.X-padLeft, msg.Y-padTop
	inside := col >= 0 && col < m.cols && row >= 0 && row < m.rows
	x, y := m.logical(col, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return ink.Event{}, false
		}
		return ink.Event{Kind: ink.EventDown, X: x, Y: y}, true
	case tea.MouseActionMotion:
		if !inside {
			return ink.Event{Kind: ink.EventLeave, X: x, Y: y}, true
		}
		return ink.Event{Kind: ink.EventMove, X: x, Y: y}, true
	case tea.MouseActionRelease:
		return ink.Event{Kind: ink.EventUp, X: x, Y: y}, true
	}
	return ink.Event{}, false
}

// logical returns the surface point at the center of a cell.
func (m padModel) logical(col, row int) (float64, float64) {
	size := m.canvas.Size()
	x := (float64(col) + 0.5) / float64(m.cols) * size.Width
	y := (float64(row) + 0.5) / float64(m.rows) * size.Height
	return x, y
}

func (m padModel) View() string {
	var b strings.Builder
	pad := m.canvas.Pad()

	status := StyleDim.Render("empty")
	if !pad.IsEmpty() {
		status = StyleNumber.Render(fmt.Sprintf("%d strokes", pad.Len()))
	}
	b.WriteString(StyleTitle.Render("Sign below") + "  " + status)
	b.WriteString("\n")
	b.WriteString(padHelpStyle.Render("drag to draw  u undo  c clear  ⏎ save  q quit"))
	b.WriteString("\n")

	lines := brailleLines(m.canvas.Surface().Image(), m.canvas.Surface().Style().Background, m.cols, m.rows)
	b.WriteString(padBoxStyle.Render(padInkStyle.Render(strings.Join(lines, "\n"))))
	return b.String()
}

// =============================================================================
// Braille preview
// =============================================================================

// brailleDots maps a dot position (x, y) within a cell to its bit.
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// brailleLines downsamples img into rows lines of cols braille cells. A dot
// is set when any pixel in its block differs visibly from bg.
func brailleLines(img image.Image, bg color.Color, cols, rows int) []string {
	bounds := img.Bounds()
	dotsW, dotsH := cols*2, rows*4
	bgY := color.GrayModel.Convert(bg).(color.Gray).Y

	inked := func(dx, dy int) bool {
		x0 := bounds.Min.X + dx*bounds.Dx()/dotsW
		x1 := bounds.Min.X + (dx+1)*bounds.Dx()/dotsW
		y0 := bounds.Min.Y + dy*bounds.Dy()/dotsH
		y1 := bounds.Min.Y + (dy+1)*bounds.Dy()/dotsH
		for y := y0; y < max(y1, y0+1); y++ {
			for x := x0; x < max(x1, x0+1); x++ {
				g := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
				if absDiff(g, bgY) > 48 {
					return true
				}
			}
		}
		return false
	}

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c := 0; c < cols; c++ {
			cell := rune(0x2800)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if inked(c*2+dx, r*4+dy) {
						cell |= brailleDots[dy][dx]
					}
				}
			}
			line.WriteRune(cell)
		}
		lines[r] = line.String()
	}
	return lines
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// =============================================================================
// Command
// =============================================================================

// drawCommand creates the interactive draw command.
func (c *CLI) drawCommand() *cobra.Command {
	var (
		output  string
		pngPath string
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Capture a signature with the mouse",
		Long: `Draw opens a signature pad in the terminal. Drag with the left mouse button
to draw. The result is saved as a pointer event recording that render, export
and submit accept.`,
		Example: `  sigpad draw -o signature.jsonl
  sigpad draw --png signature.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			style, err := cfg.Pad.Style()
			if err != nil {
				return err
			}

			canvas := render.NewCanvas(ink.NewPad(), cfg.Pad.Size(), 1, style)
			canvas.SetLogger(c.Logger)

			p := tea.NewProgram(newPadModel(canvas, 60, 12), tea.WithAltScreen(), tea.WithMouseCellMotion())
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("signature pad: %w", err)
			}
			m := final.(padModel)
			if !m.saved {
				printInfo("Cancelled")
				return nil
			}

			doc := canvas.Pad().Snapshot()
			if len(doc.Strokes) == 0 {
				printWarning("Nothing drawn, not saved")
				return nil
			}

			if output == "" {
				output = "signature.jsonl"
			}
			if err := writeEventsFile(output, doc.Events()); err != nil {
				return err
			}
			printSuccess("Saved %d strokes", len(doc.Strokes))
			printFile(output)

			if pngPath != "" {
				exp := export.New(cfg.Export.MaxWidth)
				exp.Style = style
				art, err := exp.ExportCanvas(canvas)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pngPath, art.Bytes, 0o644); err != nil {
					return err
				}
				printFile(pngPath)
			}
			printNextStep("Submit it", appName+" submit --sig signature="+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "event recording (default: signature.jsonl)")
	cmd.Flags().StringVar(&pngPath, "png", "", "also export a PNG")

	return cmd
}

func writeEventsFile(path string, events []ink.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ink.WriteEvents(f, events); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
