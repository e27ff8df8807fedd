package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/stacksjs/dtsx-sub004/internal/core/config"
	"github.com/stacksjs/dtsx-sub004/internal/core/ports"
)

var sourceExtensions = map[string]bool{
	".ts":  true,
	".mts": true,
	".cts": true,
}

var declarationSuffixes = []string{".d.ts", ".d.mts", ".d.cts"}

// walkSource discovers TypeScript sources under the configured root. It
// implements ports.FileSource against the local filesystem.
type walkSource struct {
	root         string
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	entrypoints  []glob.Glob
}

func newWalkSource(cfg *config.Config) (*walkSource, error) {
	compiledDirs, err := compileGlobs(cfg.Exclude.Dirs)
	if err != nil {
		return nil, err
	}
	compiledFiles, err := compileGlobs(cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}
	compiledEntrypoints, err := compileGlobs(cfg.Entrypoints)
	if err != nil {
		return nil, err
	}
	return &walkSource{
		root:         cfg.Root,
		excludeDirs:  compiledDirs,
		excludeFiles: compiledFiles,
		entrypoints:  compiledEntrypoints,
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func (s *walkSource) Files() ([]ports.SourceFile, error) {
	var files []ports.SourceFile

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.root && s.excludedDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.Accepts(path) {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		files = append(files, ports.SourceFile{Path: path, Text: string(data)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Accepts reports whether path is a generatable source unit. Watch mode
// reuses it to filter raw filesystem events.
func (s *walkSource) Accepts(path string) bool {
	base := filepath.Base(path)
	if !sourceExtensions[strings.ToLower(filepath.Ext(base))] {
		return false
	}
	lower := strings.ToLower(base)
	for _, suffix := range declarationSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	for _, g := range s.excludeFiles {
		if g.Match(base) {
			return false
		}
	}
	if len(s.entrypoints) > 0 {
		rel := s.relPath(path)
		matched := false
		for _, g := range s.entrypoints {
			if g.Match(rel) || g.Match(base) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (s *walkSource) excludedDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range s.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (s *walkSource) relPath(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
