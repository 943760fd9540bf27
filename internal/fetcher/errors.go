package fetcher

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured. No request is made.
	ErrMissingAPIKey = errors.New("steam web api key not set")

	// ErrRetriesExhausted matches a *FetchError via errors.Is.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrMalformedResponse is returned for a body that cannot be decoded.
	ErrMalformedResponse = errors.New("malformed app list response")

	// ErrStalledCursor is returned when a page claims more results but does not
	// advance the cursor.
	ErrStalledCursor = errors.New("app list cursor did not advance")
)

// FetchError reports a page that could not be fetched within the attempt budget.
type FetchError struct {
	// Cursor is the last_appid of the failing page.
	Cursor uint32

	// Attempts is the number of requests made for the page.
	Attempts int

	// Err is the error of the final attempt.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page at last_appid=%d: %s after %d attempts: %v",
		e.Cursor, ErrRetriesExhausted, e.Attempts, e.Err)
}

// Unwrap returns the final attempt's error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches ErrRetriesExhausted.
func (e *FetchError) Is(target error) bool {
	return target == ErrRetriesExhausted
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Code int
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// redactedError hides the API key, which transport errors echo back via the request URL.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, secret string) error {
	if err == nil || secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return &redactedError{
		msg: strings.ReplaceAll(err.Error(), secret, "REDACTED"),
		err: err,
	}
}
