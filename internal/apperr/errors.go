// Package apperr defines the error kinds the service distinguishes at its
// HTTP boundary. Handlers classify wrapped errors with errors.Is and map
// each kind to a status code.
package apperr

import "errors"

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrUnsupportedType     = errors.New("unsupported file type")
	ErrExtractionFailed    = errors.New("failed to extract text")
	ErrProviderUnavailable = errors.New("AI service not configured")
	ErrProviderError       = errors.New("AI generation failed")
	ErrEmptyResponse       = errors.New("empty response from AI service")
)
