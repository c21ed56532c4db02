package markup

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// Kind classifies a recoverable problem found while loading markup.
type Kind string

const (
	KindHeaderError              Kind = "header_error"
	KindDelimiterError           Kind = "delimiter_mismatch"
	KindSizeParseError           Kind = "size_parse_error"
	KindLinkResolutionFailure    Kind = "link_resolution_failure"
	KindHandlerResolutionFailure Kind = "handler_resolution_failure"
	KindHandlerInvocationError   Kind = "handler_invocation_error"
	KindEmptyCustomElement       Kind = "empty_custom_element"
	KindMissingID                Kind = "missing_id"
	KindUnterminatedToken        Kind = "unterminated_token"
	KindMissingHeader            Kind = "missing_header"

	// Raised by the directory loader.
	KindOverlayTargetMissing Kind = "overlay_target_missing"
	KindDirectoryMissing     Kind = "directory_missing"
	KindLanguageFallback     Kind = "language_fallback"
	KindReadFailure          Kind = "read_failure"
	KindPredicateInvalid     Kind = "predicate_invalid"
	KindPredicateFailed      Kind = "predicate_failed"
	KindParseFailure         Kind = "parse_failure"
)

// Severity is the log level a diagnostic is reported at.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is one recoverable problem, tied to a file and line when known.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	File     string
	// Line is 1-based; zero when the problem is not tied to a line.
	Line    int
	Snippet string
	Message string
}

func (d Diagnostic) Error() string {
	var b strings.Builder
	if d.File != "" {
		b.WriteString(d.File)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}
		b.WriteString(": ")
	}
	b.WriteString(string(d.Kind))
	if d.Message != "" {
		b.WriteString(": ")
		b.WriteString(d.Message)
	}
	return b.String()
}

// Event is the structured log key for the diagnostic.
func (d Diagnostic) Event() string {
	switch d.Kind {
	case KindOverlayTargetMissing, KindDirectoryMissing, KindLanguageFallback,
		KindReadFailure, KindPredicateInvalid, KindPredicateFailed, KindParseFailure:
		return "wiki.loader." + string(d.Kind)
	default:
		return "wiki.markup." + string(d.Kind)
	}
}

// Log reports the diagnostic through logger at its severity.
func (d Diagnostic) Log(logger interfaces.Logger) {
	if logger == nil {
		return
	}
	logger = logging.WithFileContext(logger, d.File, d.Line)
	args := []any{"error", d.Message}
	if d.Snippet != "" {
		args = append(args, "snippet", d.Snippet)
	}
	if d.Severity == SeverityError {
		logger.Error(d.Event(), args...)
		return
	}
	logger.Warn(d.Event(), args...)
}

// Diagnostics is an ordered diagnostic list.
type Diagnostics []Diagnostic

// OfKind returns the diagnostics with the given kind.
func (ds Diagnostics) OfKind(kind Kind) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// HasKind reports whether any diagnostic has the given kind.
func (ds Diagnostics) HasKind(kind Kind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
