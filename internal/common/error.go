// Package common defines shared constants and sentinel errors used across
// the matchmaker server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrorStoreUnavailable = errors.New("store unavailable")

	// Object store errors.
	ErrorUploadFailed = errors.New("upload failed")
	ErrorFetchFailed  = errors.New("fetch failed")
	ErrorDeleteFailed = errors.New("delete failed")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorValidation   = errors.New("validation error")
	ErrorConflict     = errors.New("already exists")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Federated identity could not be verified.
	ErrorInvalidCredential = errors.New("invalid credential")

	// Token errors. Both are reported to callers as forbidden.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
