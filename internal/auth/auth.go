// Package auth resolves the session identity of a chat request.
package auth

import (
	"net/http"

	"finview/internal/core"
)

// SessionProvider reports who is logged in for a request.
type SessionProvider interface {
	CurrentUser(r *http.Request) (core.User, bool)
}

// Stub is always logged in as the same test user.
type Stub struct {
	User core.User
}

// DefaultStubUser is the identity the stub reports when none is configured.
var DefaultStubUser = core.User{UserID: "test-user-123", Name: "Test User"}

func NewStub() *Stub {
	return &Stub{User: DefaultStubUser}
}

func (s *Stub) IsLoggedIn() bool { return true }

func (s *Stub) CurrentUser(_ *http.Request) (core.User, bool) {
	return s.User, true
}
