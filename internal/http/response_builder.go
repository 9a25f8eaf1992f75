// Package http provides HTTP server and handler implementations.
//
// This file implements a builder for JSON responses so every handler sets
// status, headers and body the same way.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	msgMessageRequired  = "Message is required"
	msgInvalidBody      = "Invalid request body"
	msgBodyTooLarge     = "Request body too large"
	msgMethodNotAllowed = "Method not allowed"
	msgInternal         = "Internal server error"
	msgRateLimited      = "Too many requests. Please try again later."
	msgNotFound         = "Not found"
	msgApologyReply     = "I apologize, but I encountered an error processing your request. Please try again."

	contentTypeJSON = "application/json; charset=utf-8"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Reply string `json:"reply,omitempty"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// StatusCode returns the status the builder will write.
func (b *JSONResponseBuilder) StatusCode() int {
	return b.statusCode
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(b.statusCode)

	if b.body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(b.body); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// ErrorResponse creates a JSON error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(ErrorBody{Error: message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, msgNotFound)
}

// PayloadTooLargeError creates a 413 response for oversized bodies.
func PayloadTooLargeError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusRequestEntityTooLarge, msgBodyTooLarge)
}

// TooManyRequestsError creates a 429 response with a retry hint.
func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, msgRateLimited).
		Header("Retry-After", "60")
}

// MethodNotAllowedError creates a 405 response listing the allowed methods.
func MethodNotAllowedError(allowedMethods string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, msgMethodNotAllowed).
		Header("Allow", allowedMethods)
}

// ChatFailureError is the 500 body chat clients render as a reply.
func ChatFailureError() *JSONResponseBuilder {
	return NewJSONResponse().
		Status(http.StatusInternalServerError).
		Body(ErrorBody{Error: msgInternal, Reply: msgApologyReply})
}
