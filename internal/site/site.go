// Package site exports built wikis as a static HTML site with a sitemap and
// an incremental build manifest.
package site

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/goliatone/go-slug"
	"github.com/zeebo/blake3"

	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/internal/render"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// ErrOutputDirRequired is returned when no output directory is configured.
var ErrOutputDirRequired = errors.New("site: output directory is required")

// DefaultTitle names the site index when Options.Title is empty.
const DefaultTitle = "Wikis"

var wikiTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html lang="{{ lang }}">
<head>
<meta charset="utf-8">
<title>{{ title }}</title>
</head>
<body>
<nav><a href="../index.html">{{ site }}</a></nav>
<main>
{{ body|safe }}
</main>
</body>
</html>
`))

var indexTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html lang="{{ lang }}">
<head>
<meta charset="utf-8">
<title>{{ site }}</title>
</head>
<body>
<h1>{{ site }}</h1>
<ul>
{% for entry in wikis %}<li><a href="{{ entry.Href }}">{{ entry.Title }}</a> ({{ entry.Pages }} pages)</li>
{% endfor %}</ul>
</body>
</html>
`))

// Options configures an export.
type Options struct {
	OutputDir string
	BaseURL   string
	Title     string
	// Lang is written to the html lang attribute.
	Lang   string
	Robots bool
	// Force rewrites documents even when the manifest says they are current.
	Force bool
}

// Result summarises an export.
type Result struct {
	Wikis    int
	Written  int
	Skipped  int
	Removed  int
	Duration time.Duration
}

// Option customises an Exporter.
type Option func(*Exporter)

// WithLogger sets the exporter logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithNow overrides the clock used for manifest timestamps.
func WithNow(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// Exporter writes one HTML document per wiki plus a site index.
type Exporter struct {
	rctx   *pages.Context
	opts   Options
	routes *routes
	logger interfaces.Logger
	now    func() time.Time
}

type document struct {
	Key string
	// Route is the absolute URL of the document.
	Route        string
	Output       string
	Body         []byte
	Hash         string
	LastModified time.Time
}

type indexEntry struct {
	Title string
	Href  string
	Pages int
}

// New returns an exporter rendering with rctx.
func New(rctx *pages.Context, opts Options, options ...Option) *Exporter {
	if strings.TrimSpace(opts.Title) == "" {
		opts.Title = DefaultTitle
	}
	if strings.TrimSpace(opts.Lang) == "" {
		opts.Lang = "en"
	}
	e := &Exporter{
		rctx:   rctx,
		opts:   opts,
		routes: newRoutes(opts.BaseURL),
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Export renders every wiki held by registry into the output directory.
func (e *Exporter) Export(ctx context.Context, registry *pages.Registry) (*Result, error) {
	if strings.TrimSpace(e.opts.OutputDir) == "" {
		return nil, ErrOutputDirRequired
	}
	started := e.now()
	result := &Result{}

	previous, err := e.readManifest()
	if err != nil {
		return nil, err
	}

	docs, err := e.documents(registry)
	if err != nil {
		return nil, err
	}
	result.Wikis = len(docs) - 1

	next := newManifest()
	next.GeneratedAt = started
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc := &docs[i]
		target := e.outputPath(doc.Output)
		if !e.opts.Force && previous.shouldSkip(doc.Key, doc.Hash, doc.Output) && fileExists(target) {
			doc.LastModified = previous.Documents[doc.Key].LastModified
			result.Skipped++
		} else {
			if err := writeFile(target, doc.Body); err != nil {
				return nil, err
			}
			doc.LastModified = started
			result.Written++
		}
		next.Documents[doc.Key] = manifestDocument{
			Key:          doc.Key,
			Route:        doc.Route,
			Output:       doc.Output,
			Hash:         doc.Hash,
			LastModified: doc.LastModified,
		}
	}

	for key, stale := range previous.Documents {
		if _, ok := next.Documents[key]; ok {
			continue
		}
		if err := e.remove(stale.Output); err != nil {
			return nil, err
		}
		result.Removed++
	}

	if err := writeFile(e.outputPath("sitemap.xml"), []byte(buildSitemap(docs, started))); err != nil {
		return nil, err
	}
	if e.opts.Robots {
		sitemapURL, err := e.routes.sitemap()
		if err != nil {
			return nil, err
		}
		if err := writeFile(e.outputPath("robots.txt"), []byte(buildRobots(sitemapURL))); err != nil {
			return nil, err
		}
	}
	data, err := next.marshal()
	if err != nil {
		return nil, err
	}
	if err := writeFile(e.outputPath(manifestFileName), data); err != nil {
		return nil, err
	}

	result.Duration = e.now().Sub(started)
	e.logger.WithContext(ctx).Info("wiki.site.exported",
		"output", e.opts.OutputDir,
		"wikis", result.Wikis,
		"written", result.Written,
		"skipped", result.Skipped,
		"removed", result.Removed,
	)
	return result, nil
}

func (e *Exporter) documents(registry *pages.Registry) ([]document, error) {
	html := render.NewHTML(e.rctx)
	var docs []document
	var entries []indexEntry
	used := map[string]int{}

	for _, w := range registry.Wikis() {
		dir := dirName(w.Pack.DisplayName())
		if n := used[dir]; n > 0 {
			used[dir] = n + 1
			dir = fmt.Sprintf("%s-%d", dir, n+1)
		} else {
			used[dir] = 1
		}

		body, err := html.Wiki(w)
		if err != nil {
			return nil, fmt.Errorf("render wiki %s: %w", w.Title, err)
		}
		out, err := wikiTemplate.Execute(pongo2.Context{
			"lang":  e.opts.Lang,
			"title": w.Title,
			"site":  e.opts.Title,
			"body":  string(body),
		})
		if err != nil {
			return nil, fmt.Errorf("render wiki %s: %w", w.Title, err)
		}
		route, err := e.routes.wiki(dir)
		if err != nil {
			return nil, err
		}
		docs = append(docs, newDocument(w.ID.String(), route, path.Join(dir, "index.html"), out))
		entries = append(entries, indexEntry{Title: w.Title, Href: dir + "/index.html", Pages: len(w.Pages)})
	}

	out, err := indexTemplate.Execute(pongo2.Context{
		"lang":  e.opts.Lang,
		"site":  e.opts.Title,
		"wikis": entries,
	})
	if err != nil {
		return nil, fmt.Errorf("render site index: %w", err)
	}
	route, err := e.routes.index()
	if err != nil {
		return nil, err
	}
	return append(docs, newDocument("index", route, "index.html", out)), nil
}

func newDocument(key, route, output, body string) document {
	sum := blake3.Sum256([]byte(body))
	return document{
		Key:    key,
		Route:  route,
		Output: output,
		Body:   []byte(body),
		Hash:   hex.EncodeToString(sum[:]),
	}
}

func dirName(pack string) string {
	if name, err := slug.Normalize(pack); err == nil && name != "" {
		return name
	}
	return "wiki"
}

func (e *Exporter) outputPath(rel string) string {
	return filepath.Join(e.opts.OutputDir, filepath.FromSlash(rel))
}

func (e *Exporter) readManifest() (*manifest, error) {
	data, err := os.ReadFile(e.outputPath(manifestFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return newManifest(), nil
	}
	if err != nil {
		return nil, err
	}
	return parseManifest(data)
}

func (e *Exporter) remove(rel string) error {
	target := e.outputPath(rel)
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	// Leaves non-empty directories in place.
	if dir := filepath.Dir(target); dir != filepath.Clean(e.opts.OutputDir) {
		_ = os.Remove(dir)
	}
	return nil
}

func writeFile(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func fileExists(target string) bool {
	info, err := os.Stat(target)
	return err == nil && !info.IsDir()
}
