// Package main is the entry point for the draftsmith drawing editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/draftsmith/draftsmith/internal/command"
	"github.com/draftsmith/draftsmith/internal/config"
	"github.com/draftsmith/draftsmith/internal/dxf"
	"github.com/draftsmith/draftsmith/internal/export"
	"github.com/draftsmith/draftsmith/internal/log"
	"github.com/draftsmith/draftsmith/internal/project"
	"github.com/draftsmith/draftsmith/internal/script"
	"github.com/draftsmith/draftsmith/internal/session"
	"github.com/draftsmith/draftsmith/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		logLevel    string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("draftsmith %s (%s)\n", version, commit)
		return 0
	}

	logger := log.New(log.Config{Level: log.ParseLevel(logLevel), Output: os.Stderr})

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "script":
			return runScript(args[1:], cfg, logger)
		case "plot":
			return runPlot(args[1:], cfg, logger)
		case "dxfout":
			return runDXFOut(args[1:], cfg, logger)
		case "dxfin":
			return runDXFIn(args[1:], cfg, logger)
		}
	}

	projectPath := ""
	if len(args) > 0 {
		projectPath = args[0]
	}
	return runEditor(projectPath, configPath, cfg, logger)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Draftsmith - terminal 2D CAD\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  draftsmith [options] [drawing.dsp]        Open the editor\n")
	fmt.Fprintf(os.Stderr, "  draftsmith script file.lua [drawing.dsp]  Run a script against a drawing\n")
	fmt.Fprintf(os.Stderr, "  draftsmith plot drawing.dsp out.pdf       Plot the active sheet to PDF\n")
	fmt.Fprintf(os.Stderr, "  draftsmith dxfout drawing.dsp out.dxf     Export the active sheet to DXF\n")
	fmt.Fprintf(os.Stderr, "  draftsmith dxfin in.dxf drawing.dsp       Import a DXF into a new drawing\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

// sessionSettings maps the loaded config onto the engine knobs.
func sessionSettings(cfg config.Config) command.Settings {
	s := command.DefaultSettings()
	s.PickThreshold = cfg.PickThreshold
	s.SnapTolerance = cfg.SnapTolerance
	s.CloseThreshold = cfg.CloseThreshold
	s.PolarIncrementDeg = cfg.PolarIncrement
	return s
}

func applyModes(sess *session.Session, cfg config.Config) {
	sess.SetOSnap(cfg.OSnap)
	sess.SetOrtho(cfg.Ortho)
	sess.SetPolar(cfg.Polar)
}

// loadSheets opens the project at path, or an empty document when path
// is empty, and applies the configured drawing defaults to every sheet.
func loadSheets(path string, cfg config.Config, logger *log.Logger) (*project.Sheets, error) {
	doc := project.Document{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, warnings, err := project.Load(path)
			if err != nil {
				return nil, err
			}
			for _, w := range warnings {
				logger.Warn("%s: %s", path, w)
			}
			doc = loaded
		}
	}
	sheets := project.NewSheets(doc, sessionSettings(cfg), cfg.MaxHistory, logger)

	lineTypes, err := config.LoadLineTypes(cfg.LineTypesPath)
	if err != nil {
		return nil, err
	}
	lt := cfg.DefaultLineType
	known := false
	for _, t := range lineTypes {
		if t.Name == lt {
			known = true
			break
		}
	}
	if !known {
		logger.Warn("unknown default linetype %q, using CONTINUOUS", lt)
		lt = "CONTINUOUS"
	}
	for _, sess := range sheets.Sessions() {
		sess.Store().SetLineType(lt)
		sess.Store().SetLineWeight(cfg.DefaultLineWeight)
	}
	return sheets, nil
}

func runEditor(projectPath, configPath string, cfg config.Config, logger *log.Logger) int {
	sheets, err := loadSheets(projectPath, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	sess := sheets.Active()
	applyModes(sess, cfg)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()
	screen.EnableMouse()

	app := tui.New(screen, sess, logger)
	if projectPath != "" {
		app.OnSave = func() error {
			return project.Save(projectPath, sheets.Document())
		}
	}

	// Config edits apply to the live session.
	if configPath != "" {
		watcher, err := config.Watch(configPath, func(next config.Config) {
			applyModes(sess, next)
			sess.Selection().SetPickThreshold(next.PickThreshold)
		}, logger)
		if err != nil {
			logger.Warn("config watch: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		app.Stop()
	}()

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runPlot renders the active sheet of a drawing to a PDF file.
func runPlot(args []string, cfg config.Config, logger *log.Logger) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Error: plot needs a drawing and an output file")
		return 1
	}
	sheets, err := loadSheets(args[0], cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	st := sheets.Active().Store()

	patterns, err := config.LoadHatchPatterns(cfg.HatchesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	out, err := os.Create(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	warnings, err := export.PlotPDF(out, export.PlotOptions{Patterns: patterns}, st.Layers(), st.All(), st.Block)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, w := range warnings {
		logger.Warn("plot: %s", w)
	}
	fmt.Printf("plotted %s -> %s\n", args[0], args[1])
	return 0
}

// runDXFOut writes the active sheet as a DXF file.
func runDXFOut(args []string, cfg config.Config, logger *log.Logger) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Error: dxfout needs a drawing and an output file")
		return 1
	}
	sheets, err := loadSheets(args[0], cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	st := sheets.Active().Store()

	out, err := os.Create(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	warnings, err := dxf.Export(out, st.Layers(), st.All(), st.Block)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, w := range warnings {
		logger.Warn("dxfout: %s", w)
	}
	fmt.Printf("exported %s -> %s\n", args[0], args[1])
	return 0
}

// runDXFIn reads a DXF file into a fresh single-sheet drawing. Imported
// records flow through the store so ids and style defaults apply.
func runDXFIn(args []string, cfg config.Config, logger *log.Logger) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Error: dxfin needs a DXF file and a drawing path")
		return 1
	}
	in, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	layers, entities, warnings, err := dxf.Import(in)
	in.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, w := range warnings {
		logger.Warn("dxfin: %s", w)
	}

	sheets := project.NewSheets(project.Document{}, sessionSettings(cfg), cfg.MaxHistory, logger)
	st := sheets.Active().Store()
	for _, l := range layers {
		if err := st.AddLayer(l); err != nil {
			logger.Warn("dxfin: layer %s: %v", l.Name, err)
		}
	}
	for _, e := range entities {
		if _, err := st.Add(e); err != nil {
			logger.Warn("dxfin: %s: %v", e.Kind, err)
		}
	}

	if err := project.Save(args[1], sheets.Document()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("imported %s -> %s (%d entities)\n", args[0], args[1], st.Len())
	return 0
}

// runScript executes a Lua file against a drawing and saves the result
// back when a project path was given.
func runScript(args []string, cfg config.Config, logger *log.Logger) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: script mode needs a .lua file")
		return 1
	}
	scriptPath := args[0]
	projectPath := ""
	if len(args) > 1 {
		projectPath = args[1]
	}

	sheets, err := loadSheets(projectPath, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	sess := sheets.Active()
	applyModes(sess, cfg)

	engine := script.New(sess, script.Options{Logger: logger})
	defer engine.Close()
	if err := engine.RunFile(scriptPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if projectPath != "" {
		if err := project.Save(projectPath, sheets.Document()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	fmt.Printf("script %s: %d entities\n", scriptPath, sess.Store().Len())
	return 0
}
