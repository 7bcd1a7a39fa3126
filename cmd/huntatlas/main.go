package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/udisondev/huntatlas/internal/config"
	"github.com/udisondev/huntatlas/internal/hunt"
	"github.com/udisondev/huntatlas/internal/observe"
	"github.com/udisondev/huntatlas/internal/snapshot"
)

const ConfigPath = "config/huntatlas.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// flags are command-line overrides on top of the YAML config.
type flags struct {
	config string
	mapf   string
	raster string
	spawns string
	areas  string
	order  string
	out    string
	idsOut string
	audit  bool
	x, y   int
	z      int
}

func parseFlags(args []string, stderr io.Writer) (flags, []string, error) {
	var f flags
	fs := flag.NewFlagSet("huntatlas", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: huntatlas [flags] [report|ids|regions|locate]...")
		fs.PrintDefaults()
	}

	fs.StringVar(&f.config, "config", "", "path to YAML config (default $HUNTATLAS_CONFIG or "+ConfigPath+")")
	fs.StringVar(&f.mapf, "map", "", "OTBM map file")
	fs.StringVar(&f.raster, "raster", "", "region raster image")
	fs.StringVar(&f.spawns, "spawns", "", "monster spawn XML")
	fs.StringVar(&f.areas, "areas", "", "area catalog XML")
	fs.StringVar(&f.order, "order", "", "report order: catalog, name or count")
	fs.StringVar(&f.out, "out", "", "report output file (default stdout)")
	fs.StringVar(&f.idsOut, "ids-out", "", "unique id list output file (default stdout)")
	fs.BoolVar(&f.audit, "audit", false, "append the data-quality summary to the report")
	fs.IntVar(&f.x, "x", 0, "locate: world x")
	fs.IntVar(&f.y, "y", 0, "locate: world y")
	fs.IntVar(&f.z, "z", -1, "locate: floor (default raster.floor)")

	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}

	if f.z < -1 || f.z > math.MaxInt8 {
		return f, nil, fmt.Errorf("-z %d out of range [0, %d]", f.z, math.MaxInt8)
	}

	cmds := fs.Args()
	if len(cmds) == 0 {
		cmds = []string{cmdReport}
	}
	for _, c := range cmds {
		if !slices.Contains(commandNames, c) {
			return f, nil, fmt.Errorf("unknown command %q", c)
		}
	}
	return f, cmds, nil
}

func loadConfig(f flags) (config.Report, error) {
	cfgPath := ConfigPath
	if p := os.Getenv("HUNTATLAS_CONFIG"); p != "" {
		cfgPath = p
	}
	if f.config != "" {
		cfgPath = f.config
	}

	cfg, err := config.LoadReport(cfgPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	overrides := []struct {
		dst *string
		val string
	}{
		{&cfg.Inputs.Map, f.mapf},
		{&cfg.Inputs.Raster, f.raster},
		{&cfg.Inputs.Spawns, f.spawns},
		{&cfg.Inputs.Areas, f.areas},
		{&cfg.Output.Order, f.order},
		{&cfg.Output.Report, f.out},
		{&cfg.Output.IDs, f.idsOut},
	}
	for _, o := range overrides {
		if o.val != "" {
			*o.dst = o.val
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, cmds, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("huntatlas starting", "commands", cmds, "log_level", cfg.LogLevel)

	order, err := hunt.ParseOrder(cfg.Output.Order)
	if err != nil {
		return err
	}

	opts, err := snapshot.OptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("building snapshot options: %w", err)
	}

	provider := observe.NewProvider()
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Warn("metrics shutdown", "err", err)
		}
	}()
	metrics, err := observe.NewMetrics(provider)
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}

	e := &env{
		cfg:     cfg,
		flags:   f,
		order:   order,
		palette: opts.Palette,
		cache:   snapshot.NewCache(opts),
		metrics: metrics,
		stdout:  stdout,
	}

	for _, name := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.dispatch(ctx, name); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	logSummary(ctx, provider)
	return nil
}

// logSummary logs every non-zero counter of the run.
func logSummary(ctx context.Context, p *observe.Provider) {
	counters, err := p.Counters(ctx)
	if err != nil {
		slog.Warn("collecting run summary", "err", err)
		return
	}

	attrs := make([]any, 0, 2*len(counters))
	for _, name := range slices.Sorted(maps.Keys(counters)) {
		if counters[name] == 0 {
			continue
		}
		attrs = append(attrs, name, counters[name])
	}
	slog.Info("run summary", attrs...)
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
