package service

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the local Climatiq call budget is exhausted
var ErrRateLimited = errors.New("climatiq: local rate limit exceeded")

// ErrInvalidActivity wraps activity log validation failures
var ErrInvalidActivity = errors.New("activity: invalid entry")

// ServiceError is a non-success HTTP response from the estimation service
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("climatiq: status %d: %s", e.StatusCode, e.Body)
}

// TransportError is a network-level failure: timeout, DNS, refused connection
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("climatiq: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
