package app

import (
	"errors"
	"fmt"
)

// InvalidRequestError is special error type returned when any request params are invalid
type InvalidRequestError string

// Error implements error interface
func (e InvalidRequestError) Error() string {
	return string(e)
}

// IsInvalidRequestError checks if given error is caused by invalid request
func IsInvalidRequestError(err error) bool {
	var e InvalidRequestError
	return errors.As(err, &e)
}

// NotFoundError is returned when requested user or resource doesn't exist.
type NotFoundError string

// Error implements error interface
func (e NotFoundError) Error() string {
	return string(e)
}

// IsNotFoundError checks if given error is caused by missing resource
func IsNotFoundError(err error) bool {
	var e NotFoundError
	return errors.As(err, &e)
}

// RateLimitError is returned when provider's api quota is exceeded.
type RateLimitError string

// Error implements error interface
func (e RateLimitError) Error() string {
	return string(e)
}

// IsRateLimitError checks if given error is caused by exceeded rate limit
func IsRateLimitError(err error) bool {
	var e RateLimitError
	return errors.As(err, &e)
}

// NetworkError is returned for transport failures and unexpected http statuses.
// StatusCode is 0 if no response was received.
type NetworkError struct {
	Provider   Provider
	StatusCode int
	Err        error
}

// Error implements error interface
func (e NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error: %d", e.Provider.Title(), e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s API error: %v", e.Provider.Title(), e.Err)
	}
	return fmt.Sprintf("%s API error", e.Provider.Title())
}

// Unwrap returns underlying error.
func (e NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError checks if given error is a network error
func IsNetworkError(err error) bool {
	var e NetworkError
	return errors.As(err, &e)
}

// ParseError is returned when stored data can't be decoded.
type ParseError struct {
	Key string
	Err error
}

// Error implements error interface
func (e ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Key, e.Err)
}

// Unwrap returns underlying error.
func (e ParseError) Unwrap() error {
	return e.Err
}

// IsParseError checks if given error is caused by malformed stored data
func IsParseError(err error) bool {
	var e ParseError
	return errors.As(err, &e)
}
