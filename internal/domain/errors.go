package domain

import "errors"

// Input errors. The caller can fix these.
var (
	ErrUnknownFormat = errors.New("unknown paper format")
	ErrInvalidMargin = errors.New("invalid page margin")
)

// Render errors. Each wraps the underlying browser failure.
var (
	ErrSessionLaunch = errors.New("failed to launch browser session")
	ErrContentLoad   = errors.New("failed to load page content")
	ErrPDFExport     = errors.New("PDF export failed")
)

// IsInputError reports whether err was caused by the request itself.
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnknownFormat) || errors.Is(err, ErrInvalidMargin)
}
