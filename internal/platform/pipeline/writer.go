// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pipeline

import (
	"bytes"
	"net/http"
)

// ResponseWriter is the response sink of a [Context].
//
// It records the status code and whether the response has started so the
// interceptor knows if an error response can still be written.
type ResponseWriter interface {
	http.ResponseWriter

	// Status returns the status written so far, or 0 if none.
	Status() int

	// Written reports whether headers or body bytes have been sent.
	Written() bool
}

// # Tracking Writer

type responseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

// newResponseWriter wraps writer unless it already tracks its state.
func newResponseWriter(writer http.ResponseWriter) ResponseWriter {
	if tracked, ok := writer.(ResponseWriter); ok {
		return tracked
	}
	return &responseWriter{ResponseWriter: writer}
}

func (recorder *responseWriter) WriteHeader(code int) {
	if recorder.written {
		return
	}
	recorder.status = code
	recorder.written = true
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *responseWriter) Write(body []byte) (int, error) {
	if !recorder.written {
		recorder.WriteHeader(http.StatusOK)
	}
	return recorder.ResponseWriter.Write(body)
}

func (recorder *responseWriter) Status() int { return recorder.status }

func (recorder *responseWriter) Written() bool { return recorder.written }

// Flush forwards Flush to the underlying ResponseWriter if it supports http.Flusher.
func (recorder *responseWriter) Flush() {
	if flusher, ok := recorder.ResponseWriter.(http.Flusher); ok {
		if !recorder.written {
			recorder.WriteHeader(http.StatusOK)
		}
		flusher.Flush()
	}
}

// Unwrap exposes the underlying writer to [http.ResponseController].
func (recorder *responseWriter) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

// # Buffered Writer

// bufferedWriter holds a complete response in memory until it is committed.
// The interceptor renders error pages into it so a failing renderer never
// leaves a half-written response behind.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (buffer *bufferedWriter) Header() http.Header { return buffer.header }

func (buffer *bufferedWriter) WriteHeader(code int) {
	if buffer.status == 0 {
		buffer.status = code
	}
}

func (buffer *bufferedWriter) Write(body []byte) (int, error) {
	if buffer.status == 0 {
		buffer.status = http.StatusOK
	}
	return buffer.body.Write(body)
}

func (buffer *bufferedWriter) Status() int { return buffer.status }

func (buffer *bufferedWriter) Written() bool { return buffer.status != 0 }

// commitTo copies headers, status and body to destination.
func (buffer *bufferedWriter) commitTo(destination http.ResponseWriter, status int) {
	header := destination.Header()
	for key, values := range buffer.header {
		header[key] = values
	}
	header.Del("Content-Length")

	destination.WriteHeader(status)
	_, _ = destination.Write(buffer.body.Bytes())
}
