package loader

import "errors"

var (
	// ErrNilWiki is returned when loading into a nil wiki.
	ErrNilWiki = errors.New("loader: wiki is nil")
	// ErrNilPack is returned when building a wiki without a content pack.
	ErrNilPack = errors.New("loader: content pack is nil")
	// ErrDirectoryMissing is returned when the wiki folder does not exist.
	ErrDirectoryMissing = errors.New("loader: wiki directory missing")
	// ErrPredicateNotFound is returned for an All_ file naming an unregistered predicate.
	ErrPredicateNotFound = errors.New("loader: predicate not found")
	// ErrPredicateSignature is returned when a registered predicate has the wrong shape.
	ErrPredicateSignature = errors.New("loader: predicate must be func(*catalog.Definition) bool")
	// ErrPredicatePath is returned for an All_ file name without a method part.
	ErrPredicatePath = errors.New("loader: expected All_<TypePath>.<Method>")
)
