package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacksjs/dtsx-sub004/internal/core/app"
	"github.com/stacksjs/dtsx-sub004/internal/core/config"
)

func createTestProject(t *testing.T, root string) {
	t.Helper()

	index := `import { Greeting } from './lib/types'

export const VERSION = '0.1.0'

export function greet(name: string): Greeting {
	return { text: 'hi ' + name };
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.ts"), []byte(index), 0o644))

	require.NoError(t, os.Mkdir(filepath.Join(root, "lib"), 0o755))
	types := `export interface Greeting {
  text: string;
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "types.ts"), []byte(types), 0o644))

	// A declaration file must never be treated as input.
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "old.d.ts"), []byte("declare const stale: 1;\n"), 0o644))

	// Excluded directory.
	require.NoError(t, os.Mkdir(filepath.Join(root, "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "dep.ts"), []byte("export const dep = 1\n"), 0o644))
}

func testConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Root = root
	cfg.OutDir = filepath.Join(root, "dist")
	cfg.Workers = 2
	return cfg
}

func TestFullGenerationRun(t *testing.T) {
	root := t.TempDir()
	createTestProject(t, root)
	cfg := testConfig(t, root)

	a, err := app.New(cfg)
	require.NoError(t, err)
	defer a.Close()

	summary, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 0, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	indexOut, err := os.ReadFile(filepath.Join(root, "dist", "index.d.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(indexOut), "export declare const VERSION: '0.1.0';")
	assert.Contains(t, string(indexOut), "export declare function greet(name: string): Greeting;")
	assert.Contains(t, string(indexOut), "import { Greeting } from './lib/types';")

	libOut, err := os.ReadFile(filepath.Join(root, "dist", "lib", "types.d.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(libOut), "export declare interface Greeting {")

	// Excluded and declaration inputs produce no output.
	_, err = os.Stat(filepath.Join(root, "dist", "node_modules"))
	assert.True(t, os.IsNotExist(err))
}

func TestFailureIsolation(t *testing.T) {
	root := t.TempDir()
	createTestProject(t, root)
	broken := "export const bad = 'unterminated\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.ts"), []byte(broken), 0o644))
	cfg := testConfig(t, root)

	a, err := app.New(cfg)
	require.NoError(t, err)
	defer a.Close()

	summary, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Failed)

	// Healthy siblings still produced output.
	_, err = os.Stat(filepath.Join(root, "dist", "index.d.ts"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "dist", "broken.d.ts"))
	assert.True(t, os.IsNotExist(err))
}

func TestCacheHitsOnSecondRun(t *testing.T) {
	root := t.TempDir()
	createTestProject(t, root)
	cfg := testConfig(t, root)
	cfg.Cache.Enabled = true
	cfg.Cache.Path = filepath.Join(root, ".dtsgen", "cache.db")

	a, err := app.New(cfg)
	require.NoError(t, err)
	first, err := a.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.Equal(t, 0, first.CacheHits)

	again, err := app.New(cfg)
	require.NoError(t, err)
	defer again.Close()
	second, err := again.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.Processed)
	assert.Equal(t, 2, second.CacheHits)
}

func TestCleanRemovesStaleOutput(t *testing.T) {
	root := t.TempDir()
	createTestProject(t, root)
	cfg := testConfig(t, root)
	cfg.Clean = true

	require.NoError(t, os.MkdirAll(cfg.OutDir, 0o755))
	stale := filepath.Join(cfg.OutDir, "stale.d.ts")
	require.NoError(t, os.WriteFile(stale, []byte("declare const gone: 1;\n"), 0o644))

	a, err := app.New(cfg)
	require.NoError(t, err)
	defer a.Close()
	_, err = a.Run(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(cfg.OutDir, "index.d.ts"))
	assert.NoError(t, err)
}

func TestEntrypointFiltering(t *testing.T) {
	root := t.TempDir()
	createTestProject(t, root)
	cfg := testConfig(t, root)
	cfg.Entrypoints = []string{"index.ts"}

	a, err := app.New(cfg)
	require.NoError(t, err)
	defer a.Close()

	summary, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	_, err = os.Stat(filepath.Join(root, "dist", "lib", "types.d.ts"))
	assert.True(t, os.IsNotExist(err))
}
