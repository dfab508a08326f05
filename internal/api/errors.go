package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/yash-srivastava19/studynotes/internal/config"
)

var (
	// ErrNetwork matches any NetworkError via errors.Is.
	ErrNetwork = errors.New(config.MsgNetworkError)

	ErrAIUnavailable    = errors.New(config.MsgAIUnavailable)
	ErrAIResponseFormat = errors.New(config.MsgAIResponseFormat)
)

// HTTPError is a non-2xx response.
type HTTPError struct {
	Status  int
	Message string // server-supplied message, if the body carried one
	Body    []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// NetworkError is a transport failure: no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// OpError ties a failure to the domain operation that produced it.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + ": " + Message(e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Message converts err into the text shown to the user.
func Message(err error) string {
	var (
		httpErr *HTTPError
		opErr   *OpError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &opErr):
		return opErr.Error()
	case errors.Is(err, ErrNetwork):
		return config.MsgNetworkError
	case errors.Is(err, context.DeadlineExceeded):
		return config.MsgNetworkError
	case errors.As(err, &httpErr):
		return config.StatusMessage(httpErr.Status)
	default:
		return err.Error()
	}
}

// Status returns the HTTP status carried by err, or 0.
func Status(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &OpError{Op: op, Err: err}
}
