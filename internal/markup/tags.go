package markup

import (
	"errors"
	"fmt"
	"strings"
)

// Header tags understood by the parser.
const (
	TagID               = "ID"
	TagTitle            = "Title"
	TagIcon             = "Icon"
	TagBackground       = "Background"
	TagRequiredResearch = "RequiredResearch"
	TagDescription      = "Description"
	TagAlwaysSpoiler    = "AlwaysSpoiler"
)

// EndTags separates the header from the body.
const EndTags = "ENDTAGS"

var (
	// ErrMalformedTag is returned for a header line without ':'.
	ErrMalformedTag = errors.New("markup: expected 'TAG:Data'")
	// ErrBlankTag is returned for a header line with an empty tag name.
	ErrBlankTag = errors.New("markup: blank tag")
	// ErrDuplicateTag is returned when a tag repeats within one header.
	ErrDuplicateTag = errors.New("markup: duplicate tag")
)

// TagTable holds the header of one markup file. Tag names are case-sensitive
// and the first occurrence of a tag wins.
type TagTable struct {
	values map[string]string
	order  []string
}

// NewTagTable returns an empty table.
func NewTagTable() *TagTable {
	return &TagTable{values: map[string]string{}}
}

// Reset clears the table for reuse.
func (t *TagTable) Reset() {
	clear(t.values)
	t.order = t.order[:0]
}

// Set stores value under tag unless the tag is blank or already present.
func (t *TagTable) Set(tag, value string) error {
	if strings.TrimSpace(tag) == "" {
		return ErrBlankTag
	}
	if _, exists := t.values[tag]; exists {
		return fmt.Errorf("%w '%s'", ErrDuplicateTag, tag)
	}
	t.values[tag] = value
	t.order = append(t.order, tag)
	return nil
}

// Get returns the value of tag.
func (t *TagTable) Get(tag string) (string, bool) {
	v, ok := t.values[tag]
	return v, ok
}

// GetOr returns the value of tag or fallback when it is absent.
func (t *TagTable) GetOr(tag, fallback string) string {
	if v, ok := t.values[tag]; ok {
		return v
	}
	return fallback
}

// Has reports whether tag was declared.
func (t *TagTable) Has(tag string) bool {
	_, ok := t.values[tag]
	return ok
}

// Len returns the number of stored tags.
func (t *TagTable) Len() int { return len(t.values) }

// Tags returns tag names in declaration order.
func (t *TagTable) Tags() []string {
	return append([]string(nil), t.order...)
}

// ParseHeaderLine splits "TAG:Value". The tag is everything before the first
// ':' and the value is the trimmed remainder, further colons included.
func ParseHeaderLine(line string) (tag, value string, err error) {
	tag, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", fmt.Errorf("%w, got '%s'", ErrMalformedTag, strings.TrimSpace(line))
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", "", ErrBlankTag
	}
	return tag, strings.TrimSpace(value), nil
}
