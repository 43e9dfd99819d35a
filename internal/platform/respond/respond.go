// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses. Pages
// are written as HTML, health checks as a JSON envelope and status pages as plain
// text, so every writer in the application sets headers the same way.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
)

// SuccessEnvelope is the JSON envelope for successful responses.
type SuccessEnvelope struct {
	Data interface{} `json:"data"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// HTML writes a rendered page with the given status code.
func HTML(writer http.ResponseWriter, statusCode int, body []byte) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(body)
}

// Text writes a plain-text response. An empty message falls back to the status text.
func Text(writer http.ResponseWriter, statusCode int, message string) {
	if message == "" {
		message = fmt.Sprintf("%d %s\n", statusCode, http.StatusText(statusCode))
	}

	header := writer.Header()
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("X-Content-Type-Options", "nosniff")
	writer.WriteHeader(statusCode)
	_, _ = fmt.Fprint(writer, message)
}

// Error writes an [apperr.AppError] as a JSON error envelope.
// Errors of any other type are reported as an opaque internal error.
func Error(writer http.ResponseWriter, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
