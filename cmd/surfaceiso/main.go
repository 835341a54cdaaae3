package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/surfaceiso/advanced"
	"github.com/osuushi/surfaceiso/internal/config"
	"github.com/osuushi/surfaceiso/surface"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Build a surface from survey points and iso-lines read from a file, print a
// summary, and optionally write the surface out as OBJ, GeoJSON or DXF, or
// render the triangulation to a PNG.
func main() {
	app := kingpin.New("surfaceiso", "Triangulate survey points into a surface that follows iso-lines.")
	overrides := map[string]interface{}{}
	record := func(key string, value func() interface{}) kingpin.Action {
		return func(*kingpin.ParseContext) error {
			overrides[key] = value()
			return nil
		}
	}

	var (
		format       string
		epsilon      float64
		boundaryOnly bool
		synthetic    bool
		scale        float64
		verbose      bool
	)
	input := app.Arg("input", "Points and iso-lines to triangulate.").Required().ExistingFile()
	app.Flag("format", "Input format.").Short('f').
		Action(record(config.KeyFormat, func() interface{} { return format })).
		EnumVar(&format, surface.Formats...)
	out := app.Flag("out", "Write the surface to this file (.obj, .geojson or .dxf).").Short('o').String()
	png := app.Flag("png", "Render the triangulation to this PNG file.").String()
	app.Flag("scale", "Pixels per unit when rendering.").
		Action(record(config.KeyScale, func() interface{} { return scale })).
		Float64Var(&scale)
	cat := app.Flag("imgcat", "Print the rendered triangulation to the terminal.").Bool()
	app.Flag("epsilon", "Distance under which points are merged.").Short('e').
		Action(record(config.KeyEpsilon, func() interface{} { return epsilon })).
		Float64Var(&epsilon)
	app.Flag("boundary-only", "Keep only triangles enclosed by iso-lines.").
		Action(record(config.KeyBoundaryOnly, func() interface{} { return boundaryOnly })).
		BoolVar(&boundaryOnly)
	app.Flag("synthetic", "Create vertices where iso-lines cross.").
		Action(record(config.KeySynthetic, func() interface{} { return synthetic })).
		BoolVar(&synthetic)
	configPath := app.Flag("config", "YAML configuration file.").ExistingFile()
	app.Flag("verbose", "Log debug output.").Short('v').
		Action(record(config.KeyVerbose, func() interface{} { return verbose })).
		BoolVar(&verbose)

	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath, overrides)
	app.FatalIfError(err, "")

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*input, *out, *png, *cat, cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, aurora.Red(err))
		os.Exit(1)
	}
}

func run(input, out, png string, cat bool, cfg *config.Config, logger *slog.Logger) error {
	m, err := surface.ReadFile(input, cfg.Format)
	if err != nil {
		return err
	}
	logger.Debug("read input", "path", input, "vertices", len(m.Vertices), "edges", len(m.Edges), "holes", len(m.Holes))

	opts := append(cfg.SurfaceOptions(), surface.WithLogger(logger))
	report, err := surface.MakeSurface(m, opts...)
	if err != nil {
		return err
	}
	printSummary(os.Stdout, aurora.NewAurora(true), report)

	if out != "" {
		if err := surface.WriteFile(m, out); err != nil {
			return err
		}
		logger.Info("wrote surface", "path", out)
	}
	if png != "" {
		if err := report.Result.SavePNG(png, cfg.Scale); err != nil {
			return err
		}
		logger.Info("wrote png", "path", png)
	}
	if cat {
		return report.Result.CatPNG(cfg.Scale)
	}
	return nil
}

func printSummary(w io.Writer, au aurora.Aurora, report *surface.Report) {
	result := report.Result
	fmt.Fprintf(w, "points: %d\n", len(result.Points))
	fmt.Fprintf(w, "triangles: %d\n", len(result.Triangles))
	fmt.Fprintf(w, "faces added: %d\n", len(report.Added))
	if len(report.NewVertices) > 0 {
		fmt.Fprintf(w, "vertices added: %d\n", len(report.NewVertices))
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "faces skipped: %v\n", au.Yellow(len(report.Skipped)))
	}

	status := au.Green(result.Status)
	if result.Status != advanced.StatusOK {
		status = au.Yellow(result.Status)
	}
	fmt.Fprintf(w, "status: %s\n", status)

	for _, d := range result.Diagnostics {
		fmt.Fprintln(w, colorDiagnostic(au, d))
	}
}

func colorDiagnostic(au aurora.Aurora, d advanced.Diagnostic) aurora.Value {
	switch d.Kind {
	case advanced.KindInvalidInput, advanced.KindNonTermination:
		return au.Red(d)
	case advanced.KindUnresolvedFace:
		return au.Magenta(d)
	}
	return au.Yellow(d)
}
