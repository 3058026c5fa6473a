package domain

import "errors"

// Domain errors
var (
	ErrEmptyUpload        = errors.New("empty upload")
	ErrDocumentOpen       = errors.New("document could not be opened")
	ErrImageDecode        = errors.New("image could not be decoded")
	ErrPageOutOfRange     = errors.New("page out of range")
	ErrNoDocument         = errors.New("no document loaded")
	ErrEmptyText          = errors.New("empty text")
	ErrCredentialMissing  = errors.New("api credential missing")
	ErrServiceUnavailable = errors.New("ai service unavailable")
	ErrInvalidResponse    = errors.New("invalid ai response")
	ErrRateLimited        = errors.New("rate limited")
)
