// Package export renders static snapshots of a lineage forest for sharing
// outside the TUI.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajstarks/svgo"

	"github.com/vanderheijden86/linework/pkg/model"
	"github.com/vanderheijden86/linework/pkg/tree"
)

// LineageSnapshotOptions controls lineage snapshot export behaviour.
type LineageSnapshotOptions struct {
	Path  string            // Output path; .svg appended when no extension
	Title string            // Optional title rendered in the header block
	Graph *model.EntityGraph // Forest to render
	Pins  tree.PinState     // Pinned/visible highlighting
	// DisplayCycles mirrors the widget setting: when false, cycle nodes
	// are spliced out of the rendered rows.
	DisplayCycles bool
}

// Layout constants for the row-based rendering.
const (
	rowHeight  = 34
	rowGap     = 8
	indentStep = 28
	nodeWidth  = 300
	marginX    = 24
	headerH    = 72
)

var (
	colorBackdrop = color.RGBA{0x10, 0x12, 0x18, 0xff}
	colorHeaderBG = color.RGBA{0x1b, 0x1e, 0x28, 0xff}
	colorNode     = color.RGBA{0x2a, 0x2e, 0x3c, 0xff}
	colorPinned   = color.RGBA{0x3a, 0x6e, 0x4f, 0xff}
	colorVisible  = color.RGBA{0x2e, 0x46, 0x5e, 0xff}
	colorStroke   = color.RGBA{0x4a, 0x4f, 0x62, 0xff}
	colorText     = color.RGBA{0xe8, 0xe8, 0xe8, 0xff}
	colorSubtle   = color.RGBA{0x9a, 0xa0, 0xb4, 0xff}
)

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// SaveLineageSnapshot renders the forest as a static SVG with pinned rows
// highlighted. The visual language is intentionally concise so the file is
// readable without auxiliary docs.
func SaveLineageSnapshot(opts LineageSnapshotOptions) error {
	if opts.Graph.Empty() {
		return fmt.Errorf("no entities to export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if filepath.Ext(opts.Path) == "" {
		opts.Path += ".svg"
	}
	if !strings.EqualFold(filepath.Ext(opts.Path), ".svg") {
		return fmt.Errorf("unsupported format %q (want svg)", filepath.Ext(opts.Path))
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, opts)
}

func renderSVGToWriter(w io.Writer, opts LineageSnapshotOptions) error {
	rows := tree.Rows(opts.Graph, opts.Pins, tree.RowOptions{
		DisplayCycles: opts.DisplayCycles,
	})

	maxDepth := 0
	for _, r := range rows {
		if r.Depth > maxDepth {
			maxDepth = r.Depth
		}
	}

	width := marginX*2 + maxDepth*indentStep + nodeWidth
	height := headerH + len(rows)*(rowHeight+rowGap) + marginX

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 12, width-32, headerH-24, 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	title := opts.Title
	if title == "" {
		title = "Lineage snapshot"
	}
	canvas.Text(32, 36, title,
		fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 52, fmt.Sprintf("entities: %d  pinned: %d", opts.Graph.Count(), opts.Pins.PinnedCount()),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))

	for i, r := range rows {
		x := marginX + r.Depth*indentStep
		y := headerH + i*(rowHeight+rowGap)

		fill := colorNode
		switch {
		case opts.Pins.Pinned(r.Node.ID):
			fill = colorPinned
		case opts.Pins.Visible(r.Node.ID):
			fill = colorVisible
		}

		// Connector stub back toward the parent column.
		if r.Depth > 0 {
			canvas.Line(x-indentStep/2, y+rowHeight/2, x, y+rowHeight/2,
				fmt.Sprintf("stroke:%s;stroke-width:1.5", css(colorStroke)))
		}

		canvas.Roundrect(x, y, nodeWidth, rowHeight, 8, 8,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(fill), css(colorStroke)))

		label := r.Node.Label
		if label == "" {
			label = r.Node.ID
		}
		if r.Node.Primary {
			label += " *"
		}
		canvas.Text(x+10, y+15, truncateLabel(label, 34),
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
		canvas.Text(x+10, y+28, fmt.Sprintf("%s  %s", r.Node.Type, r.Node.ID),
			fmt.Sprintf("fill:%s;font-size:10px;font-family:monospace", css(colorSubtle)))
	}

	canvas.End()
	return nil
}

func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
