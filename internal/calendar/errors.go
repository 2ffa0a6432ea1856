package calendar

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Class groups backend failures into the categories shown to chat users.
type Class string

const (
	ClassAuth        Class = "auth"
	ClassQuota       Class = "quota"
	ClassInvalid     Class = "invalid"
	ClassNotFound    Class = "not_found"
	ClassUnavailable Class = "unavailable"
)

// Error is returned by every Client operation that fails.
type Error struct {
	Op    string
	Class Class
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s (%s): %v", e.Op, e.Class, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsClass reports whether err is a calendar *Error of class c.
func IsClass(err error, c Class) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Class == c
}

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Class: classify(err), Err: err}
}

// rateLimitReasons are 403 reasons that mean "slow down" rather than "forbidden".
var rateLimitReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"quotaExceeded":         true,
}

func classify(err error) Class {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return ClassUnavailable
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return ClassAuth
	case http.StatusForbidden:
		for _, item := range gerr.Errors {
			if rateLimitReasons[item.Reason] {
				return ClassQuota
			}
		}
		return ClassAuth
	case http.StatusTooManyRequests:
		return ClassQuota
	case http.StatusBadRequest:
		return ClassInvalid
	case http.StatusNotFound, http.StatusGone:
		return ClassNotFound
	default:
		return ClassUnavailable
	}
}

