// Package main is the entry point for the screenline renderer.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/screenline/internal/config"
	"github.com/dshills/screenline/internal/display"
	"github.com/dshills/screenline/internal/term"
	"github.com/dshills/screenline/internal/textbuf"
	"github.com/dshills/screenline/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	settings, err := loadSettings(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	layer, err := buildLayer(opts.path, settings, opts.folds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.interactive {
		viewer, err := term.NewViewer(layer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
			return 1
		}
		if err := viewer.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	render(os.Stdout, layer, opts.showTags)
	if !opts.watch {
		return 0
	}
	return watchLoop(opts, settings)
}

// watchLoop re-renders the file every time it changes on disk until
// interrupted.
func watchLoop(opts options, settings config.Settings) int {
	w, err := watch.NewWatcher(opts.path, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to watch %s: %v\n", opts.path, err)
		return 1
	}
	defer w.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-signals:
			return 0
		case err, ok := <-w.Errors():
			if !ok {
				return 0
			}
			fmt.Fprintf(os.Stderr, "Warning: watcher: %v\n", err)
		case _, ok := <-w.Events():
			if !ok {
				return 0
			}
			layer, err := buildLayer(opts.path, settings, opts.folds)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			render(os.Stdout, layer, opts.showTags)
		}
	}
}

// loadSettings resolves the configuration file and the flag overrides.
func loadSettings(opts options) (config.Settings, error) {
	settings := config.DefaultSettings()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Settings{}, err
		}
		settings = loaded
	}

	if opts.tabSet {
		settings.TabLength = opts.tabLength
	}
	if opts.wrapSet {
		settings.SoftWrapColumn = opts.wrapColumn
	}
	if opts.guidesSet {
		settings.ShowIndentGuides = opts.guides
	}
	if opts.invisiblesSet {
		settings.ShowInvisibles = opts.invisibles
	}
	return settings, settings.Validate()
}

// buildLayer loads the file into a buffer and configures a display layer
// from the settings.
func buildLayer(path string, settings config.Settings, folds []textbuf.Range) (*display.Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	buffer, err := textbuf.NewBufferFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	layerOpts := []display.Option{
		display.WithTabLength(settings.TabLength),
		display.WithFoldCharacter(settings.FoldCharacter),
		display.WithShowIndentGuides(settings.ShowIndentGuides),
		display.WithSoftWrap(settings.SoftWrapColumn, settings.HangingIndent),
	}
	if settings.ShowInvisibles {
		layerOpts = append(layerOpts, display.WithInvisibles(display.Invisibles{
			Space: settings.Invisibles.Space,
			Tab:   settings.Invisibles.Tab,
			EOL:   settings.Invisibles.EOL,
			CR:    settings.Invisibles.CR,
		}))
	}

	layer := display.NewLayer(buffer, layerOpts...)
	for _, r := range folds {
		if _, err := layer.FoldBufferRange(r); err != nil {
			return nil, fmt.Errorf("fold %s: %w", r, err)
		}
	}
	return layer, nil
}

// render writes every screen line, optionally followed by its decoded tag
// stream.
func render(w io.Writer, layer *display.Layer, showTags bool) {
	lines := layer.BuildScreenLines(0, layer.ScreenLineCount())
	for _, line := range lines {
		fmt.Fprintln(w, line.LineText)
		if showTags {
			fmt.Fprintf(w, "\t%s\n", formatTagStream(layer, line))
		}
	}
}

// formatTagStream renders a tag-code stream in a readable form:
// lengths stay numeric, tag codes decode to open(name)/close(name).
func formatTagStream(layer *display.Layer, line display.ScreenLine) string {
	parts := make([]string, 0, len(line.TagCodes))
	for _, code := range line.TagCodes {
		switch {
		case code >= 0:
			parts = append(parts, fmt.Sprintf("%d", code))
		case display.IsOpenTagCode(code):
			name, _ := layer.TagRegistry().TagForCode(code)
			parts = append(parts, fmt.Sprintf("open(%s)", name))
		default:
			name, _ := layer.TagRegistry().TagForCode(code)
			parts = append(parts, fmt.Sprintf("close(%s)", name))
		}
	}
	return strings.Join(parts, " ")
}

// options holds the parsed command line.
type options struct {
	configPath  string
	tabLength   int
	wrapColumn  int
	guides      bool
	invisibles  bool
	showTags    bool
	watch       bool
	interactive bool
	folds       foldList
	path        string

	tabSet        bool
	wrapSet       bool
	guidesSet     bool
	invisiblesSet bool
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.IntVar(&opts.tabLength, "tab", 4, "Tab length in columns")
	flag.IntVar(&opts.wrapColumn, "wrap", 0, "Soft wrap column (0 disables)")
	flag.BoolVar(&opts.guides, "guides", false, "Show indent guides")
	flag.BoolVar(&opts.invisibles, "invisibles", false, "Render whitespace invisibles")
	flag.BoolVar(&opts.showTags, "tags", false, "Print each line's decoration tag stream")
	flag.BoolVar(&opts.watch, "watch", false, "Re-render when the file changes")
	flag.BoolVar(&opts.interactive, "interactive", false, "Open an interactive viewer")
	flag.BoolVar(&opts.interactive, "i", false, "Open an interactive viewer (shorthand)")
	flag.Var(&opts.folds, "fold", "Fold a buffer range R1:C1-R2:C2 (repeatable)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Screenline - buffer to screen-line renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: screenline [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  screenline file.go                  Render a file\n")
		fmt.Fprintf(os.Stderr, "  screenline -wrap 80 -guides file.go Wrap with indent guides\n")
		fmt.Fprintf(os.Stderr, "  screenline -fold 2:0-8:0 file.go    Collapse rows 2-8\n")
		fmt.Fprintf(os.Stderr, "  screenline -i -invisibles file.go   Interactive with invisibles\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Screenline %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tab":
			opts.tabSet = true
		case "wrap":
			opts.wrapSet = true
		case "guides":
			opts.guidesSet = true
		case "invisibles":
			opts.invisiblesSet = true
		}
	})

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.path = flag.Arg(0)
	return opts
}
