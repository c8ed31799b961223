// Package app holds the business services: ingesting PDFs, answering
// questions over them, similarity search, and document management.
package app

import "errors"

// Service errors. The transport layer maps these to HTTP statuses;
// everything unrecognized becomes a 500.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUpstreamUnavailable = errors.New("upstream model unavailable")
	ErrTimeout             = errors.New("operation timed out")
	ErrNoContent           = errors.New("no extractable content")
)
