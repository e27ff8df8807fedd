// Package generator is the single entry point of the declaration
// pipeline: scan, emit, optimize imports, assemble.
package generator

import (
	"github.com/stacksjs/dtsx-sub004/internal/core/errors"
	"github.com/stacksjs/dtsx-sub004/internal/engine/emit"
	"github.com/stacksjs/dtsx-sub004/internal/engine/scanner"
)

// Options are the only behaviour-affecting inputs the core accepts; the
// surrounding config surface is resolved by the caller.
type Options struct {
	KeepComments           bool
	PreferredImportSources []string
}

// Generate derives the declaration text for one source unit. The result
// is deterministic for identical inputs. A scan failure aborts only this
// file; sibling files are unaffected.
func Generate(sourceText, filePath string, opts Options) (string, error) {
	decls, err := scanner.Scan(sourceText)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeScanError, "declaration scan failed")
		if se, ok := err.(*scanner.ScanError); ok {
			wrapped = errors.AddContext(wrapped, errors.CtxPosition, se.Position)
		}
		return "", errors.AddContext(wrapped, errors.CtxPath, filePath)
	}
	return emit.Emit(decls, emit.Options{
		KeepComments:           opts.KeepComments,
		PreferredImportSources: opts.PreferredImportSources,
	}), nil
}
