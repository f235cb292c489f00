package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/creativeprojects/onesecmail/lib"
)

const maxErrorBody = 200

// ServiceError is returned when the service answers with an error status or with an unreadable content.
// It matches lib.ErrService with errors.Is.
type ServiceError struct {
	Action     string
	StatusCode int
	Body       string
	Err        error
}

func newServiceError(action string, statusCode int, body []byte, err error) *ServiceError {
	if len(body) > maxErrorBody {
		body = append(body[:maxErrorBody:maxErrorBody], "..."...)
	}
	return &ServiceError{
		Action:     action,
		StatusCode: statusCode,
		Body:       string(body),
		Err:        err,
	}
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("%s: action %q", lib.ErrService, e.Action)
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(": %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += fmt.Sprintf(" (%q)", e.Body)
	}
	return msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return target == lib.ErrService
}

// IsServiceError returns the ServiceError wrapped in err, if any
func IsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}
