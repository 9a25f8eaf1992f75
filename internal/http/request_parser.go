// Package http provides HTTP server and handler implementations.
//
// This file implements request body reading and decoding for the JSON API.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes int64 = 64 << 10

// ChatBody is the JSON body of POST /api/chat. Unknown fields are ignored.
type ChatBody struct {
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

var errBodyTooLarge = errors.New("request body too large")

// RequestBodyParser reads a request body once and decodes it on demand.
type RequestBodyParser struct {
	body        []byte
	contentType string
	err         error
}

// NewRequestBodyParser reads at most maxBytes of r's body. A larger body is
// reported by Err as errBodyTooLarge.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request, maxBytes int64) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	if r.Body == nil {
		return p
	}

	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(p.err, &tooLarge) {
		p.err = errBodyTooLarge
	}
	return p
}

// Err returns the error from reading the body, if any.
func (p *RequestBodyParser) Err() error {
	return p.err
}

// GetRaw returns the raw body bytes.
func (p *RequestBodyParser) GetRaw() []byte {
	return p.body
}

// ContentType returns the Content-Type header value.
func (p *RequestBodyParser) ContentType() string {
	return p.contentType
}

// IsJSON reports whether the request declared a JSON body
// (application/json or any +json media type).
func (p *RequestBodyParser) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(p.contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// IsForm reports whether the request declared a URL-encoded form body.
func (p *RequestBodyParser) IsForm() bool {
	mediaType, _, err := mime.ParseMediaType(p.contentType)
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

// Form parses a URL-encoded body. An empty body gives empty values.
func (p *RequestBodyParser) Form() (url.Values, error) {
	if p.err != nil {
		return nil, p.err
	}
	return url.ParseQuery(string(p.body))
}

// Decode unmarshals the body into v. An empty body leaves v untouched.
func (p *RequestBodyParser) Decode(v any) error {
	if p.err != nil {
		return p.err
	}
	if len(strings.TrimSpace(string(p.body))) == 0 {
		return nil
	}
	return json.Unmarshal(p.body, v)
}

// ParseChatBody reads the chat request body as JSON or as a URL-encoded
// form. Other content types are treated as empty, so they fail later as a
// missing message. On failure the returned builder holds the error
// response.
func ParseChatBody(w http.ResponseWriter, r *http.Request, maxBytes int64) (ChatBody, *JSONResponseBuilder) {
	var body ChatBody

	p := NewRequestBodyParser(w, r, maxBytes)
	if err := p.Err(); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return body, PayloadTooLargeError()
		}
		return body, BadRequestError(msgInvalidBody)
	}
	switch {
	case p.IsJSON():
		if err := p.Decode(&body); err != nil {
			return ChatBody{}, BadRequestError(msgInvalidBody)
		}
	case p.IsForm():
		values, err := p.Form()
		if err != nil {
			return ChatBody{}, BadRequestError(msgInvalidBody)
		}
		body.Message = values.Get("message")
		body.UserID = values.Get("userId")
	}
	return body, nil
}

// RequireMethod checks if the request method matches one of methods.
// Returns an error response builder if it does not.
func RequireMethod(r *http.Request, methods ...string) *JSONResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *JSONResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireGET accepts GET and HEAD.
func RequireGET(r *http.Request) *JSONResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}
