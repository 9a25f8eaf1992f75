package auth

import (
	"fmt"
	"log/slog"
	"net/http"
)

// IdentityMode decides which user id a chat request is answered for.
type IdentityMode string

const (
	// ClientIdentity trusts the userId sent in the request body.
	ClientIdentity IdentityMode = "client"
	// SessionIdentity uses the authenticated session and ignores the body.
	SessionIdentity IdentityMode = "session"
)

func (m IdentityMode) IsValid() bool {
	return m == ClientIdentity || m == SessionIdentity
}

// Resolver applies an IdentityMode.
type Resolver struct {
	mode     IdentityMode
	sessions SessionProvider
}

func NewResolver(mode IdentityMode, sessions SessionProvider) (*Resolver, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid identity mode: %q", mode)
	}
	if mode == SessionIdentity && sessions == nil {
		return nil, fmt.Errorf("session identity mode requires a session provider")
	}
	return &Resolver{mode: mode, sessions: sessions}, nil
}

func (r *Resolver) Mode() IdentityMode { return r.mode }

// UserID returns the id to answer for. An empty result means anonymous.
func (r *Resolver) UserID(req *http.Request, claimed string) string {
	if r.mode == ClientIdentity {
		return claimed
	}
	user, ok := r.sessions.CurrentUser(req)
	if !ok {
		return ""
	}
	if claimed != "" && claimed != user.UserID {
		slog.WarnContext(req.Context(), "Ignoring client-supplied user id in session mode",
			"claimed_user_id", claimed,
			"session_user_id", user.UserID)
	}
	return user.UserID
}
