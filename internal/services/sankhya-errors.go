package services

import (
	"errors"
	"fmt"
)

// ErrSessionExpired reports that the ERP rejected the cached bearer
// token. The cache has already been cleared; the caller decides whether
// to re-invoke. The executor never retries on its own.
var ErrSessionExpired = errors.New("sankhya session expired")

// AuthError reports a failed credential exchange: the login call failed
// or returned no usable token. The cache is left empty.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("sankhya authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RemoteCallError carries the remote error payload (or transport
// message) together with the request that produced it.
type RemoteCallError struct {
	URL     string
	Method  string
	Payload string
	Err     error
}

func (e *RemoteCallError) Error() string {
	if e.Payload != "" {
		return fmt.Sprintf("sankhya call failed: %s %s: %s", e.Method, e.URL, e.Payload)
	}
	return fmt.Sprintf("sankhya call failed: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// DecodeError reports a structurally malformed remote response. Expected
// absences (empty result sets) never produce one.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sankhya response malformed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("sankhya response malformed: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DateFormatError reports a date that could not be transcoded for the
// wire. Recoverable: the field is written empty and the save continues.
type DateFormatError struct {
	Field string
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q for field %s", e.Value, e.Field)
}
