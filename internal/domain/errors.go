package domain

import "errors"

var (
	// ErrStoreUnavailable wraps any error returned by the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrServerDisabled is a policy refusal and must not be retried.
	ErrServerDisabled = errors.New("server not enabled")

	ErrNotFound            = errors.New("not found")
	ErrUnsupportedProvider = errors.New("unsupported git provider")
)
