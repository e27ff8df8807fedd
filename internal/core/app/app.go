// Package app orchestrates declaration generation over a project tree:
// discovery, a fixed worker pool around the pure pipeline, caching and
// output mirroring under the configured directory.
package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacksjs/dtsx-sub004/internal/core/config"
	"github.com/stacksjs/dtsx-sub004/internal/core/ports"
	"github.com/stacksjs/dtsx-sub004/internal/data/cache"
	"github.com/stacksjs/dtsx-sub004/internal/engine/generator"
	"github.com/stacksjs/dtsx-sub004/internal/shared/observability"
)

type App struct {
	cfg    *config.Config
	source *walkSource
	writer ports.Writer
	cache  ports.GenerationCache
}

// Summary aggregates one generation run.
type Summary struct {
	RunID     string
	Processed int
	Failed    int
	CacheHits int
	Duration  time.Duration
}

func New(cfg *config.Config) (*App, error) {
	source, err := newWalkSource(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		source: source,
		writer: diskWriter{},
	}

	if cfg.Cache.Enabled {
		c, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			slog.Warn("cache unavailable, generating without it", "path", cfg.Cache.Path, "error", err)
		} else {
			a.cache = c
		}
	}

	return a, nil
}

func (a *App) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

// Run generates declarations for every discovered source file. Failures
// are isolated per file: a scan error is logged and counted, and the
// remaining files still produce output.
func (a *App) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: uuid.New().String()}

	if a.cfg.Clean {
		if err := os.RemoveAll(a.cfg.OutDir); err != nil {
			return summary, err
		}
	}

	files, err := a.source.Files()
	if err != nil {
		return summary, err
	}

	slog.Info("generation run started",
		"run_id", summary.RunID,
		"files", len(files),
		"workers", a.cfg.Workers)

	jobs := make(chan ports.SourceFile)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < a.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				hit, err := a.processFile(ctx, file)
				mu.Lock()
				if err != nil {
					summary.Failed++
				} else {
					summary.Processed++
					if hit {
						summary.CacheHits++
					}
				}
				mu.Unlock()
			}
		}()
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return summary, ctx.Err()
		case jobs <- file:
		}
	}
	close(jobs)
	wg.Wait()

	summary.Duration = time.Since(start)
	slog.Info("generation run finished",
		"run_id", summary.RunID,
		"processed", summary.Processed,
		"failed", summary.Failed,
		"cache_hits", summary.CacheHits,
		"duration", summary.Duration)

	return summary, nil
}

// RunPaths regenerates a specific set of files, used by watch mode after
// a debounced batch of change events.
func (a *App) RunPaths(ctx context.Context, paths []string) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: uuid.New().String()}

	for _, path := range paths {
		if !a.source.Accepts(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				// Deleted between event and flush; nothing to regenerate.
				continue
			}
			slog.Warn("failed to read changed file", "path", path, "error", err)
			summary.Failed++
			continue
		}
		hit, err := a.processFile(ctx, ports.SourceFile{Path: path, Text: string(data)})
		if err != nil {
			summary.Failed++
			continue
		}
		summary.Processed++
		if hit {
			summary.CacheHits++
		}
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

func (a *App) processFile(ctx context.Context, file ports.SourceFile) (cacheHit bool, err error) {
	_, span := observability.Tracer().Start(ctx, "generate",
		trace.WithAttributes(attribute.String("file.path", file.Path)))
	defer span.End()

	start := time.Now()
	defer func() {
		observability.GenerationDuration.Observe(time.Since(start).Seconds())
	}()

	fingerprint := cache.Fingerprint(file.Text, a.cfg.KeepComments, a.cfg.PreferredImportSources)

	var text string
	if a.cache != nil {
		if cached, ok := a.cache.Get(fingerprint); ok {
			observability.CacheHitsTotal.Inc()
			text = cached
			cacheHit = true
		}
	}

	if !cacheHit {
		observability.CacheMissesTotal.Inc()
		text, err = generator.Generate(file.Text, file.Path, generator.Options{
			KeepComments:           a.cfg.KeepComments,
			PreferredImportSources: a.cfg.PreferredImportSources,
		})
		if err != nil {
			observability.FilesFailedTotal.Inc()
			span.RecordError(err)
			slog.Warn("declaration generation failed", "path", file.Path, "error", err)
			return false, err
		}
		if a.cache != nil {
			if putErr := a.cache.Put(fingerprint, text); putErr != nil {
				slog.Debug("cache write failed", "path", file.Path, "error", putErr)
			}
		}
	}

	outPath := a.outputPath(file.Path)
	if err := a.writer.Write(outPath, text); err != nil {
		observability.FilesFailedTotal.Inc()
		span.RecordError(err)
		slog.Warn("declaration write failed", "path", outPath, "error", err)
		return cacheHit, err
	}

	observability.FilesProcessedTotal.Inc()
	slog.Debug("declaration written", "source", file.Path, "output", outPath, "cache_hit", cacheHit)
	return cacheHit, nil
}

// outputPath mirrors the source path under OutDir and swaps the extension
// for the matching declaration suffix (.ts -> .d.ts, .mts -> .d.mts).
func (a *App) outputPath(sourcePath string) string {
	rel, err := filepath.Rel(a.cfg.Root, sourcePath)
	if err != nil {
		rel = filepath.Base(sourcePath)
	}
	ext := filepath.Ext(rel)
	stem := strings.TrimSuffix(rel, ext)
	switch strings.ToLower(ext) {
	case ".mts":
		ext = ".d.mts"
	case ".cts":
		ext = ".d.cts"
	default:
		ext = ".d.ts"
	}
	return filepath.Join(a.cfg.OutDir, stem+ext)
}
