package markup

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const missingHeaderCode = "WIKI_MISSING_HEADER"

// ErrMissingHeader is the cause of the only fatal parse failure: a new page
// without an ENDTAGS line.
var ErrMissingHeader = errors.New("markup: missing ENDTAGS line")

func missingHeaderError(file string) error {
	return goerrors.Wrap(ErrMissingHeader, goerrors.CategoryValidation,
		fmt.Sprintf("markup page %q has no %s line; pages need 'TAG:Data' lines followed by %s", file, EndTags, EndTags)).
		WithTextCode(missingHeaderCode)
}
