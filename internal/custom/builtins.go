package custom

import (
	"errors"
	"strings"

	"github.com/goliatone/go-wiki/internal/pages"
)

const (
	PageIndexPath  = "Wiki.PageIndex"
	EntityListPath = "Wiki.EntityList"
	NotePath       = "Wiki.Note"
)

// RegisterBuiltins adds the handlers shipped with the engine.
func RegisterBuiltins(r *Registry) error {
	return errors.Join(
		r.Register(PageIndexPath, MultiFunc(PageIndex)),
		r.Register(EntityListPath, MultiFunc(EntityList)),
		r.Register(NotePath, SingleFunc(Note)),
	)
}

// PageIndex links every authored page of the current wiki, optionally only
// those whose ID starts with the argument.
func PageIndex(args Args) ([]*pages.Element, error) {
	if args.Wiki == nil {
		return nil, nil
	}
	prefix := strings.TrimSpace(args.Input)
	var out []*pages.Element
	for _, page := range args.Wiki.Pages {
		if page == nil || page == args.Page || page.ID == "" || page.ID == pages.InvalidID {
			continue
		}
		if prefix != "" && !strings.HasPrefix(page.ID, prefix) {
			continue
		}
		out = append(out, pages.NewPageLink(page.ID))
	}
	return out, nil
}

// EntityList turns a comma separated list of entity names into entity links.
func EntityList(args Args) ([]*pages.Element, error) {
	if !args.HasInput {
		return nil, errors.New("entity list requires a comma separated argument")
	}
	var out []*pages.Element
	for _, name := range strings.Split(args.Input, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if args.Definitions != nil {
			if def, ok := args.Definitions.Definition(name); ok {
				out = append(out, pages.NewEntityLink(def, ""))
				continue
			}
		}
		out = append(out, pages.NewText(pages.MissingDefLinkText(name)))
	}
	return out, nil
}

// Note renders its argument as emphasised text.
func Note(args Args) (*pages.Element, error) {
	text := strings.TrimSpace(args.Input)
	if text == "" {
		return nil, errors.New("note requires text")
	}
	return pages.NewMediumText("Note: " + text), nil
}
