package site

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	manifestFileName    = ".wiki-site-manifest.json"
	manifestFileVersion = 1
)

// manifest records the last export so unchanged documents are not rewritten.
type manifest struct {
	Version     int
	GeneratedAt time.Time
	Documents   map[string]manifestDocument
}

type manifestDocument struct {
	Key          string    `json:"key"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Hash         string    `json:"hash"`
	LastModified time.Time `json:"last_modified"`
}

func newManifest() *manifest {
	return &manifest{
		Version:   manifestFileVersion,
		Documents: map[string]manifestDocument{},
	}
}

func parseManifest(data []byte) (*manifest, error) {
	if len(data) == 0 {
		return newManifest(), nil
	}
	var ordered orderedManifest
	if err := json.Unmarshal(data, &ordered); err != nil {
		return nil, fmt.Errorf("site: parse manifest: %w", err)
	}
	m := newManifest()
	m.GeneratedAt = ordered.GeneratedAt
	if ordered.Version != 0 {
		m.Version = ordered.Version
	}
	for _, doc := range ordered.Documents {
		m.Documents[doc.Key] = doc
	}
	return m, nil
}

type orderedManifest struct {
	Version     int                `json:"version"`
	GeneratedAt time.Time          `json:"generated_at"`
	Documents   []manifestDocument `json:"documents"`
}

func (m *manifest) marshal() ([]byte, error) {
	ordered := orderedManifest{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
		Documents:   make([]manifestDocument, 0, len(m.Documents)),
	}
	for _, doc := range m.Documents {
		ordered.Documents = append(ordered.Documents, doc)
	}
	sort.Slice(ordered.Documents, func(i, j int) bool {
		return ordered.Documents[i].Key < ordered.Documents[j].Key
	})
	return json.MarshalIndent(ordered, "", "  ")
}

func (m *manifest) shouldSkip(key, hash, output string) bool {
	entry, ok := m.Documents[key]
	if !ok {
		return false
	}
	return entry.Hash == hash && strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}
