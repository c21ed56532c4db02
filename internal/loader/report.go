package loader

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/goliatone/go-wiki/internal/markup"
)

// FileResult describes one processed markup file.
type FileResult struct {
	Path     string
	Kind     FileKind
	Checksum string
	// Pages counts the pages created or overlaid by the file.
	Pages int
}

// Report summarises a directory load.
type Report struct {
	// Language is the folder used; empty when files were read from the wiki
	// root or nothing was loaded.
	Language        string
	Dir             string
	Files           []FileResult
	PagesAdded      int
	OverlaysApplied int
	Diagnostics     markup.Diagnostics
}

// BuildReport summarises a full wiki build.
type BuildReport struct {
	Generated int
	Excluded  int
	// UnknownExcludes lists Exclude.txt entries that matched no definition.
	UnknownExcludes []string
	Load            *Report
}

// Checksum fingerprints markup source with BLAKE3.
func Checksum(data []byte) string {
	h := blake3.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
