// Package ports declares the collaborator contracts around the generation
// core. The core itself never touches the filesystem; discovery, writing
// and caching are injected through these interfaces.
package ports

// SourceFile is one discovered input.
type SourceFile struct {
	Path string
	Text string
}

// FileSource supplies source units to generate declarations for.
type FileSource interface {
	Files() ([]SourceFile, error)
}

// Writer persists one generated declaration file.
type Writer interface {
	Write(outputPath, text string) error
}

// GenerationCache maps a content/options fingerprint to previously
// generated output.
type GenerationCache interface {
	Get(fingerprint string) (string, bool)
	Put(fingerprint, text string) error
	Close() error
}
