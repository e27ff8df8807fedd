package app

import (
	"os"
	"path/filepath"

	"github.com/stacksjs/dtsx-sub004/internal/core/errors"
)

// diskWriter persists declarations under the output directory, creating
// parent directories as needed.
type diskWriter struct{}

func (diskWriter) Write(outputPath, text string) error {
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			wrapped := errors.Wrap(err, errors.CodeWriteError, "create output directory")
			return errors.AddContext(wrapped, errors.CtxPath, dir)
		}
	}
	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		wrapped := errors.Wrap(err, errors.CodeWriteError, "write declaration file")
		return errors.AddContext(wrapped, errors.CtxPath, outputPath)
	}
	return nil
}
