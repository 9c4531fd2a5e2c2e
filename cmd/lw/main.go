package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/linework/internal/datasource"
	"github.com/vanderheijden86/linework/pkg/config"
	"github.com/vanderheijden86/linework/pkg/debug"
	"github.com/vanderheijden86/linework/pkg/export"
	"github.com/vanderheijden86/linework/pkg/model"
	"github.com/vanderheijden86/linework/pkg/tree"
	"github.com/vanderheijden86/linework/pkg/ui"
	"github.com/vanderheijden86/linework/pkg/version"
	"github.com/vanderheijden86/linework/pkg/watcher"
)

func main() {
	graphPath := flag.String("graph", "", "Path to a graph snapshot file (JSON or YAML)")
	lineageDir := flag.String("lineage-dir", "", "Lineage directory to discover sources in (default .linework, or LINEWORK_DIR)")
	exportSVG := flag.String("export-svg", "", "Export the lineage as an SVG snapshot and exit")
	value := flag.String("value", "", "Initial selection, as an id or a JSON-encoded array/string of ids")
	leafType := flag.String("leaf-type", "", "Selectable node type: cycle, scenario, pipeline, datanode")
	pinnedOnly := flag.Bool("pinned-only", false, "Start with the pinned-only filter active")
	noWatch := flag.Bool("no-watch", false, "Disable source watching (no live refresh)")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *help {
		fmt.Println("Usage: lw [options]")
		fmt.Println("\nA TUI selector over a workflow execution lineage.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("lw %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if *leafType != "" {
		cfg.Selector.LeafType = *leafType
	}

	source, graph, err := resolveSource(cfg, *graphPath, *lineageDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	debug.Log("loaded %d entities from %s", graph.Count(), source.Path)

	opts := tree.Options{
		LeafType:        cfg.LeafType(),
		DisplayCycles:   cfg.Selector.DisplayCycles,
		ShowPrimaryFlag: cfg.Selector.ShowPrimaryFlag,
		Propagate:       cfg.Selector.Propagate,
		Multiple:        cfg.Selector.Multiple,
		ShowPins:        cfg.Selector.ShowPins,
	}

	if *exportSVG != "" {
		err := export.SaveLineageSnapshot(export.LineageSnapshotOptions{
			Path:          *exportSVG,
			Title:         "Lineage snapshot",
			Graph:         graph,
			Pins:          tree.NewPinState(),
			DisplayCycles: opts.DisplayCycles,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportSVG)
		os.Exit(0)
	}

	// Non-interactive fallback: print the flattened lineage and exit.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		printLineage(graph, opts)
		os.Exit(0)
	}

	m := ui.NewModel(opts, ui.DefaultTheme())
	m.SetHeadless(cfg.UI.Headless)
	m.Selector().SetDefaultValue(*value)
	m.Selector().SetGraph(graph)
	if *pinnedOnly {
		m.Selector().ToggleHideNonPinned()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if !*noWatch {
		w, err := watcher.New(source.Path,
			watcher.WithOnChange(func() {
				fresh, err := datasource.LoadGraph(source)
				if err != nil {
					debug.Log("refresh failed: %v", err)
					return
				}
				p.Send(ui.GraphReplacedMsg{Graph: fresh})
			}),
			watcher.WithOnError(func(err error) {
				debug.Log("watch error: %v", err)
			}),
		)
		if err == nil {
			if err := w.Start(); err == nil {
				defer w.Stop()
			}
		}
	}

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Hand the final selection to the host shell.
	if fm, ok := final.(ui.Model); ok {
		if id := fm.Selector().Selected(); id != "" {
			fmt.Println(id)
		}
	}
}

// resolveSource picks the graph source: an explicit --graph file wins,
// otherwise the freshest valid source in the lineage directory.
func resolveSource(cfg config.Config, graphPath, lineageDir string) (datasource.DataSource, *model.EntityGraph, error) {
	if graphPath != "" {
		src := datasource.DataSource{
			Type: datasource.SourceTypeJSON,
			Path: graphPath,
		}
		if ext := strings.ToLower(filepath.Ext(graphPath)); ext == ".yaml" || ext == ".yml" {
			src.Type = datasource.SourceTypeYAML
		}
		g, err := datasource.LoadGraph(src)
		if err != nil {
			return datasource.DataSource{}, nil, err
		}
		return src, g, nil
	}

	if lineageDir == "" {
		lineageDir = cfg.LineageDir
	}
	sources, err := datasource.DiscoverSources(datasource.DiscoveryOptions{
		LineageDir:             lineageDir,
		ValidateAfterDiscovery: true,
		Verbose:                debug.Enabled(),
		Logger:                 func(msg string) { debug.Log("%s", msg) },
	})
	if err != nil {
		return datasource.DataSource{}, nil, err
	}

	best, err := datasource.SelectBest(sources)
	if err != nil {
		return datasource.DataSource{}, nil, err
	}

	g, err := datasource.LoadGraph(best)
	if err != nil {
		return datasource.DataSource{}, nil, err
	}
	return best, g, nil
}

// printLineage writes the flattened forest as indented text.
func printLineage(g *model.EntityGraph, opts tree.Options) {
	rows := tree.Rows(g, tree.NewPinState(), tree.RowOptions{
		DisplayCycles: opts.DisplayCycles,
	})
	for _, r := range rows {
		label := r.Node.Label
		if label == "" {
			label = r.Node.ID
		}
		flag := ""
		if opts.ShowPrimaryFlag && r.Node.Primary {
			flag = " *"
		}
		fmt.Printf("%s%s%s  [%s %s]\n",
			strings.Repeat("  ", r.Depth), label, flag, r.Node.Type, r.Node.ID)
	}
}
