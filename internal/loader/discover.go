package loader

import (
	"io/fs"
	"path"
	"sort"
	"strings"
)

const (
	markupExt   = ".txt"
	excludeFile = "Exclude.txt"

	predicatePrefix = "All_"
	overlayPrefix   = "Thing_"
)

// FileKind is how a markup file is applied.
type FileKind int

const (
	// FileStandalone creates a new page placed at the head of the wiki.
	FileStandalone FileKind = iota
	// FileOverlay merges into the page generated for one entity.
	FileOverlay
	// FilePredicate merges into every generated page whose entity matches a predicate.
	FilePredicate
)

func (k FileKind) String() string {
	switch k {
	case FileOverlay:
		return "overlay"
	case FilePredicate:
		return "predicate"
	default:
		return "standalone"
	}
}

// Classification is the outcome of inspecting a markup file name.
type Classification struct {
	Kind FileKind
	// Name is the file base name without extension.
	Name string
	// Target is the entity name of an overlay.
	Target string
	// PredicateKey is "TypePath:Method" for predicate files.
	PredicateKey string
}

// Classify inspects a markup file name. Predicate names must carry a
// method part after the last '.'.
func Classify(file string) (Classification, error) {
	name := strings.TrimSuffix(path.Base(file), path.Ext(file))
	c := Classification{Kind: FileStandalone, Name: name}

	switch {
	case strings.HasPrefix(name, predicatePrefix):
		methodPath := strings.TrimPrefix(name, predicatePrefix)
		last := strings.LastIndex(methodPath, ".")
		if last < 0 {
			return c, ErrPredicatePath
		}
		c.Kind = FilePredicate
		c.PredicateKey = methodPath[:last] + ":" + methodPath[last+1:]
	case strings.HasPrefix(name, overlayPrefix):
		c.Kind = FileOverlay
		c.Target = strings.TrimPrefix(name, overlayPrefix)
	}
	return c, nil
}

// discover lists markup files under dir, recursively, ordered by base name
// descending without regard to case.
func discover(fsys fs.FS, dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(path.Ext(p), markupExt) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		a, b := strings.ToLower(path.Base(files[i])), strings.ToLower(path.Base(files[j]))
		if a != b {
			return a > b
		}
		return files[i] > files[j]
	})
	return files, nil
}
