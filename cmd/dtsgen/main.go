package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/stacksjs/dtsx-sub004/internal/core/app"
	"github.com/stacksjs/dtsx-sub004/internal/core/config"
	"github.com/stacksjs/dtsx-sub004/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./dtsgen.toml", "Path to config file")
	root       = flag.String("root", "", "Source root to scan (overrides config)")
	outDir     = flag.String("outdir", "", "Output directory (overrides config)")
	watch      = flag.Bool("watch", false, "Regenerate on file changes")
	once       = flag.Bool("once", false, "Run a single generation pass and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("dtsgen v%s\n", VERSION)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && !flagWasSet("config") {
			cfg = config.Default()
		} else {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	if *root != "" {
		cfg.Root = *root
	}
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	if *watch {
		cfg.Watch.Enabled = true
	}
	if *once {
		cfg.Watch.Enabled = false
	}

	logLevel := slog.LevelInfo
	if *verbose || cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = shutdownTracing(context.Background())
	}()

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	summary, err := a.Run(ctx)
	if err != nil {
		slog.Error("generation run failed", "error", err)
		os.Exit(1)
	}
	if summary.Failed > 0 && !cfg.Watch.Enabled {
		os.Exit(1)
	}

	if cfg.Watch.Enabled {
		if err := a.Watch(ctx); err != nil && ctx.Err() == nil {
			slog.Error("watch mode failed", "error", err)
			os.Exit(1)
		}
	}
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
