package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind tags every failure the client can report to the user.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMissingInput
	KindConnectivity
	KindInvalidCredential
	KindLocationNotFound
	KindRemote
	KindMalformedResponse
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingInput:
		return "missing_input"
	case KindConnectivity:
		return "connectivity_error"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindLocationNotFound:
		return "location_not_found"
	case KindRemote:
		return "remote_error"
	case KindMalformedResponse:
		return "malformed_response"
	case KindPersistence:
		return "persistence_error"
	}
	return "unknown"
}

// Error is the single error type returned by fetch, render and persist.
// Only the fields relevant to Kind are set.
type Error struct {
	Kind     ErrorKind
	Location string // KindLocationNotFound
	Status   int    // KindRemote
	Message  string // KindRemote
	Field    string // KindMalformedResponse
	Path     string // KindPersistence
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingInput:
		return "api key and location are required"
	case KindConnectivity:
		return fmt.Sprintf("connection failed: %v", e.Err)
	case KindInvalidCredential:
		return "invalid api key"
	case KindLocationNotFound:
		return fmt.Sprintf("location %q not found", e.Location)
	case KindRemote:
		return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Message)
	case KindMalformedResponse:
		if e.Err != nil {
			return fmt.Sprintf("malformed response, missing %s: %v", e.Field, e.Err)
		}
		return fmt.Sprintf("malformed response, missing %s", e.Field)
	case KindPersistence:
		return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func MissingInput() *Error {
	return &Error{Kind: KindMissingInput}
}

func ConnectivityError(err error) *Error {
	return &Error{Kind: KindConnectivity, Err: err}
}

func InvalidCredential() *Error {
	return &Error{Kind: KindInvalidCredential}
}

func LocationNotFound(location string) *Error {
	return &Error{Kind: KindLocationNotFound, Location: location}
}

// RemoteError falls back to the HTTP status text when the provider sent no message.
func RemoteError(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Kind: KindRemote, Status: status, Message: message}
}

func MalformedResponse(field string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Field: field, Err: err}
}

func PersistenceError(path string, err error) *Error {
	return &Error{Kind: KindPersistence, Path: path, Err: err}
}
