// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
)

// Fault is an unhandled failure raised downstream of the [ExceptionInterceptor].
type Fault struct {
	// Err is the underlying error (a recovered panic value is wrapped into one).
	Err error

	// Stack is the goroutine stack captured when a panic was recovered.
	Stack []byte

	// Panicked reports whether the fault came from a recovered panic.
	Panicked bool
}

// newPanicFault converts a recovered panic value into a [Fault].
func newPanicFault(value any, stack []byte) *Fault {
	err, ok := value.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", value)
	}
	return &Fault{Err: err, Stack: stack, Panicked: true}
}

// Error implements the error interface.
func (fault *Fault) Error() string {
	if fault.Err == nil {
		return errUnspecifiedFault.Error()
	}
	return fault.Err.Error()
}

// Unwrap exposes the underlying error to [errors.Is] and [errors.As].
func (fault *Fault) Unwrap() error {
	return fault.Err
}

// Status returns the HTTP status for the fault: the carried [apperr.AppError]
// status when it is a server error, 500 otherwise.
func (fault *Fault) Status() int {
	if appError := apperr.As(fault.Err); appError != nil && appError.HTTPStatus >= http.StatusInternalServerError {
		return appError.HTTPStatus
	}
	return http.StatusInternalServerError
}

// explicitStatus returns the client error carried by the fault, if any.
// Such errors are deliberate status responses, not unhandled faults.
func (fault *Fault) explicitStatus() *apperr.AppError {
	if fault.Panicked {
		return nil
	}
	appError := apperr.As(fault.Err)
	if appError == nil || appError.HTTPStatus >= http.StatusInternalServerError {
		return nil
	}
	return appError
}

// isCancellation reports whether err stems from the request being aborted.
func isCancellation(request *http.Request, err error) bool {
	if request.Context().Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
