package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "WIKI_COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "WIKI_COMMAND_CANCELED"
	commandContextTimeout   = "WIKI_COMMAND_TIMEOUT"
	commandContextErrorCode = "WIKI_COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "WIKI_COMMAND_FAILED"
)

func wrap(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return wrap(err, goerrors.CategoryValidation, "wiki command validation failed", commandValidationCode)
}

func wrapExecuteError(err error) error {
	return wrap(err, goerrors.CategoryCommand, "wiki command failed", commandExecuteFailed)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrap(err, goerrors.CategoryCommand, "wiki command cancelled", commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(err, goerrors.CategoryCommand, "wiki command deadline exceeded", commandContextTimeout)
	default:
		return wrap(err, goerrors.CategoryCommand, "wiki command context error", commandContextErrorCode)
	}
}
