package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-Party API Errors
var (
	ErrUpstream           = errors.New("upstream request failed")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

// NewEnvironmentVariableError reports a required variable that is unset.
// The message names the variable so callers can surface it verbatim.
func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("%s is not defined", varName),
		kind:       ErrEnvironmentVariable,
		Field:      varName,
	}
}

// NewUpstreamError wraps a non-success answer from a third-party service.
func NewUpstreamError(service string, statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("%s error (status %d): %s", service, statusCode, message),
		kind:       ErrUpstream,
	}
}

func NewServiceUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		kind:       ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s is unavailable", service),
		Cause:      cause,
	}
}

func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing) || errors.Is(err, ErrEnvironmentVariable)
}
