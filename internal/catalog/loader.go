package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

const (
	kindThing    = "thing"
	kindResearch = "research"

	researchDir = "Research"
)

// ErrUnresolvedReference is recorded when a definition names an unknown
// definition or research project.
var ErrUnresolvedReference = errors.New("catalog: unresolved reference")

// Issue records a problem with one definition file. Files with issues are
// skipped or loaded without the offending reference.
type Issue struct {
	File string
	Name string
	Err  error
}

func (i Issue) Error() string {
	if i.Name != "" {
		return fmt.Sprintf("%s (%s): %v", i.File, i.Name, i.Err)
	}
	return fmt.Sprintf("%s: %v", i.File, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used to report skipped files.
func WithLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader builds a Catalog from Markdown definition files with YAML front
// matter. Files under a Research folder default to research projects.
type Loader struct {
	fs     fs.FS
	root   string
	logger interfaces.Logger
}

// NewLoader constructs a loader reading root inside filesystem.
func NewLoader(filesystem fs.FS, root string, opts ...LoaderOption) *Loader {
	root = path.Clean(strings.TrimPrefix(root, "/"))
	if root == "" {
		root = "."
	}
	l := &Loader{
		fs:     filesystem,
		root:   root,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

type definitionFile struct {
	Kind        string      `yaml:"kind" json:"kind,omitempty"`
	Name        string      `yaml:"name" json:"name,omitempty"`
	Label       string      `yaml:"label" json:"label,omitempty"`
	Description string      `yaml:"description" json:"description,omitempty"`
	Icon        string      `yaml:"icon" json:"icon,omitempty"`
	Category    string      `yaml:"category" json:"category,omitempty"`
	Cost        []costFile  `yaml:"cost" json:"cost,omitempty"`
	Recipe      *recipeFile `yaml:"recipe" json:"recipe,omitempty"`
	Research    []string    `yaml:"research" json:"research,omitempty"`
	Recipes     []string    `yaml:"recipes" json:"recipes,omitempty"`
	WeaponTags  []string    `yaml:"weapon_tags" json:"weapon_tags,omitempty"`
	Blueprint   bool        `yaml:"blueprint" json:"blueprint,omitempty"`
	Projectile  bool        `yaml:"projectile" json:"projectile,omitempty"`
	Mote        bool        `yaml:"mote" json:"mote,omitempty"`
	BuildTarget string      `yaml:"build_target" json:"build_target,omitempty"`
	Finished    bool        `yaml:"finished" json:"finished,omitempty"`
}

type costFile struct {
	Def   string `yaml:"def" json:"def"`
	Count int    `yaml:"count" json:"count"`
}

type recipeFile struct {
	ProductCount          int      `yaml:"product_count" json:"product_count,omitempty"`
	Users                 []string `yaml:"users" json:"users,omitempty"`
	ResearchPrerequisite  string   `yaml:"research_prerequisite" json:"research_prerequisite,omitempty"`
	ResearchPrerequisites []string `yaml:"research_prerequisites" json:"research_prerequisites,omitempty"`
}

type parsedFile struct {
	path string
	file definitionFile
	def  *Definition
}

// Load walks the root folder and returns the assembled catalog. A missing
// root yields an empty catalog. Only walk failures are returned as errors;
// per-file problems are reported as issues.
func (l *Loader) Load(ctx context.Context) (*Catalog, []Issue, error) {
	cat := New()
	var issues []Issue
	report := func(issue Issue) {
		issues = append(issues, issue)
		logging.WithFields(l.logger, map[string]any{
			"file":       issue.File,
			"definition": issue.Name,
		}).Warn("wiki.catalog.file_skipped", "error", issue.Err)
	}

	if _, err := fs.Stat(l.fs, l.root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("wiki.catalog.root_missing", "root", l.root)
			return cat, nil, nil
		}
		return nil, nil, fmt.Errorf("catalog loader stat %s: %w", l.root, err)
	}

	var paths []string
	walkErr := fs.WalkDir(l.fs, l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.EqualFold(path.Ext(p), ".md") {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if walkErr != nil {
		return nil, nil, fmt.Errorf("catalog loader walk %s: %w", l.root, walkErr)
	}
	sort.Strings(paths)

	var things []parsedFile
	for _, p := range paths {
		file, err := l.readFile(p)
		if err != nil {
			report(Issue{File: p, Err: err})
			continue
		}
		switch file.Kind {
		case kindResearch:
			r := &Research{Name: file.Name, Label: file.Label, Finished: file.Finished}
			if err := r.Validate(); err != nil {
				report(Issue{File: p, Name: file.Name, Err: err})
				continue
			}
			if err := cat.AddResearch(r); err != nil {
				report(Issue{File: p, Name: file.Name, Err: err})
			}
		default:
			def := &Definition{
				Name:         file.Name,
				Label:        file.Label,
				Description:  file.Description,
				Icon:         file.Icon,
				Category:     Category(file.Category),
				Recipes:      append([]string(nil), file.Recipes...),
				WeaponTags:   append([]string(nil), file.WeaponTags...),
				IsBlueprint:  file.Blueprint,
				IsProjectile: file.Projectile,
				IsMote:       file.Mote,
			}
			if err := cat.Add(def); err != nil {
				report(Issue{File: p, Name: file.Name, Err: err})
				continue
			}
			things = append(things, parsedFile{path: p, file: file, def: def})
		}
	}

	// References may point forward, so they are linked once every file is in.
	for _, entry := range things {
		for _, err := range link(cat, entry) {
			report(Issue{File: entry.path, Name: entry.def.Name, Err: err})
		}
		if err := entry.def.Validate(); err != nil {
			report(Issue{File: entry.path, Name: entry.def.Name, Err: err})
		}
	}

	return cat, issues, nil
}

func (l *Loader) readFile(p string) (definitionFile, error) {
	data, err := fs.ReadFile(l.fs, p)
	if err != nil {
		return definitionFile{}, fmt.Errorf("read: %w", err)
	}

	var file definitionFile
	body, err := frontmatter.Parse(bytes.NewReader(data), &file)
	if err != nil {
		return definitionFile{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	if strings.TrimSpace(file.Kind) == "" {
		file.Kind = kindThing
		if isResearchPath(l.root, p) {
			file.Kind = kindResearch
		}
	}
	file.Kind = strings.ToLower(strings.TrimSpace(file.Kind))
	file.Name = strings.TrimSpace(file.Name)
	if file.Description == "" {
		file.Description = strings.TrimSpace(string(body))
	}

	if err := validateFrontMatter(file); err != nil {
		return definitionFile{}, err
	}
	return file, nil
}

func isResearchPath(root, p string) bool {
	rel := strings.TrimPrefix(p, root)
	rel = strings.TrimPrefix(rel, "/")
	first, _, _ := strings.Cut(rel, "/")
	return strings.EqualFold(first, researchDir) && strings.Contains(rel, "/")
}

func link(cat *Catalog, entry parsedFile) []error {
	var errs []error
	missingDef := func(field, name string) {
		errs = append(errs, fmt.Errorf("%w: %s %q", ErrUnresolvedReference, field, name))
	}
	file, def := entry.file, entry.def

	for _, c := range file.Cost {
		target, ok := cat.Definition(c.Def)
		if !ok {
			missingDef("cost", c.Def)
			continue
		}
		def.Cost = append(def.Cost, Cost{Def: target, Count: c.Count})
	}

	if len(file.Research) > 0 {
		def.ResearchPrerequisites = make([]*Research, 0, len(file.Research))
		for _, name := range file.Research {
			r, ok := cat.Research(name)
			if !ok {
				missingDef("research", name)
				continue
			}
			def.ResearchPrerequisites = append(def.ResearchPrerequisites, r)
		}
	}

	if file.Recipe != nil {
		maker := &RecipeMaker{ProductCount: file.Recipe.ProductCount}
		for _, name := range file.Recipe.Users {
			user, ok := cat.Definition(name)
			if !ok {
				missingDef("recipe user", name)
				continue
			}
			maker.RecipeUsers = append(maker.RecipeUsers, user)
		}
		if name := strings.TrimSpace(file.Recipe.ResearchPrerequisite); name != "" {
			if r, ok := cat.Research(name); ok {
				maker.ResearchPrerequisite = r
			} else {
				missingDef("recipe research", name)
			}
		}
		for _, name := range file.Recipe.ResearchPrerequisites {
			r, ok := cat.Research(name)
			if !ok {
				missingDef("recipe research", name)
				continue
			}
			maker.ResearchPrerequisites = append(maker.ResearchPrerequisites, r)
		}
		def.RecipeMaker = maker
	}

	if name := strings.TrimSpace(file.BuildTarget); name != "" {
		target, ok := cat.Definition(name)
		if !ok {
			missingDef("build target", name)
		} else {
			def.BuildTarget = target
		}
	}

	return errs
}
