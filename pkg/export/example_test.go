package export_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/ink"
	"github.com/matzehuels/sigpad/pkg/render"
)

func ExampleExporter_Export() {
	pad := ink.NewPad()
	pad.Begin(ink.Pt(100, 80))
	pad.Extend(ink.Pt(300, 120))
	pad.End()

	art, err := export.New(300).Export(pad.Snapshot(), render.Size{Width: 600, Height: 200})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(art.MimeType, art.Width, art.Height)
	fmt.Println(strings.HasPrefix(art.DataURI(), "data:image/png;base64,"))
	// Output:
	// image/png 300 100
	// true
}
