package site

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	routeGroup   = "site"
	routeIndex   = "index"
	routeWiki    = "wiki"
	routeSitemap = "sitemap"
)

// routes builds the absolute URLs of exported documents.
type routes struct {
	group *urlkit.Group
}

func newRoutes(baseURL string) *routes {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    routeGroup,
				BaseURL: normalizeBaseURL(baseURL),
				Paths: map[string]string{
					routeIndex:   "/",
					routeWiki:    "/:slug",
					routeSitemap: "/sitemap.xml",
				},
			},
		},
	})
	return &routes{group: manager.Group(routeGroup)}
}

func normalizeBaseURL(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "http://localhost"
	}
	return base
}

func (r *routes) index() (string, error) { return r.build(routeIndex, nil) }

func (r *routes) wiki(dir string) (string, error) {
	return r.build(routeWiki, map[string]any{"slug": dir})
}

func (r *routes) sitemap() (string, error) { return r.build(routeSitemap, nil) }

func (r *routes) build(route string, params map[string]any) (url string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("site: route %q: %v", route, rec)
		}
	}()
	builder := r.group.Builder(route)
	for key, value := range params {
		builder.WithParam(key, value)
	}
	return builder.Build()
}
