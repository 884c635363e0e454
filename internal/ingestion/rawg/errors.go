package rawg

import (
	"errors"
	"fmt"
)

// ErrNoMoreData signals the normal end of a paginated query: the API answered
// 404 past the last page. It is a clean stop condition, never a failure.
var ErrNoMoreData = errors.New("no more data")

// FetchErrorKind classifies a fetch failure.
type FetchErrorKind string

const (
	FetchRateLimited FetchErrorKind = "rate_limited"
	FetchTransient   FetchErrorKind = "transient"
	FetchBadRequest  FetchErrorKind = "bad_request"
	FetchExhausted   FetchErrorKind = "exhausted"
	FetchCanceled    FetchErrorKind = "canceled"
)

// FetchError is the error surfaced by the client when a page could not be
// fetched. Page records where in the walk the failure happened.
type FetchError struct {
	Kind FetchErrorKind
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch page %d: %s: %v", e.Page, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch page %d: %s", e.Page, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsExhausted reports whether err is a retries-exhausted fetch failure.
func IsExhausted(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchExhausted
}

// IsBadRequest reports whether err is a malformed-query fetch failure.
func IsBadRequest(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchBadRequest
}

// IsCanceled reports whether err is a cancellation surfaced mid-fetch.
func IsCanceled(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchCanceled
}

// NormalizationError is a per-record mapping failure. The orchestrator logs
// it and skips the record without aborting its siblings.
type NormalizationError struct {
	Field  string // set for missing required fields
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("normalize: missing required field %q", e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("normalize: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("normalize: %s", e.Reason)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}
