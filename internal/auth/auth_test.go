package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finview/internal/core"
)

func TestStubAlwaysLoggedIn(t *testing.T) {
	s := NewStub()
	assert.True(t, s.IsLoggedIn())

	u, ok := s.CurrentUser(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, ok)
	assert.Equal(t, "test-user-123", u.UserID)
	assert.Equal(t, "Test User", u.Name)
}

func TestJWTProviderRoundTrip(t *testing.T) {
	p, err := NewJWTProvider("secret")
	require.NoError(t, err)

	tok, err := p.Issue(core.User{UserID: "user123", Name: "Asha"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	u, ok := p.CurrentUser(req)
	require.True(t, ok)
	assert.Equal(t, core.User{UserID: "user123", Name: "Asha"}, u)
}

func TestJWTProviderRejects(t *testing.T) {
	p, err := NewJWTProvider("secret")
	require.NoError(t, err)
	other, err := NewJWTProvider("other")
	require.NoError(t, err)

	foreign, err := other.Issue(core.User{UserID: "user123"}, time.Hour)
	require.NoError(t, err)
	_, err = p.Validate(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := p.Issue(core.User{UserID: "user123"}, -time.Minute)
	require.NoError(t, err)
	_, err = p.Validate(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSubject, err := p.Issue(core.User{}, time.Hour)
	require.NoError(t, err)
	_, err = p.Validate(noSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)

	for _, h := range []string{"", "Bearer ", "Basic abc", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		_, ok := p.CurrentUser(req)
		assert.False(t, ok, h)
	}

	_, err = NewJWTProvider("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestResolver(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)

	client, err := NewResolver(ClientIdentity, nil)
	require.NoError(t, err)
	assert.Equal(t, "user123", client.UserID(req, "user123"))
	assert.Equal(t, "", client.UserID(req, ""))

	session, err := NewResolver(SessionIdentity, &Stub{User: core.User{UserID: "user123"}})
	require.NoError(t, err)
	assert.Equal(t, "user123", session.UserID(req, "someone-else"))
	assert.Equal(t, "user123", session.UserID(req, ""))

	p, err := NewJWTProvider("secret")
	require.NoError(t, err)
	anonymous, err := NewResolver(SessionIdentity, p)
	require.NoError(t, err)
	assert.Equal(t, "", anonymous.UserID(req, "user123"))

	_, err = NewResolver("nope", nil)
	assert.Error(t, err)
	_, err = NewResolver(SessionIdentity, nil)
	assert.Error(t, err)
}
