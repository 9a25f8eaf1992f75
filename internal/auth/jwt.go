package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"finview/internal/core"
)

const issuer = "finview"

var (
	ErrMissingSecret = errors.New("jwt secret is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

// JWTProvider reads HS256 bearer tokens. The subject claim is the user id.
type JWTProvider struct {
	secret []byte
	now    func() time.Time
}

func NewJWTProvider(secret string) (*JWTProvider, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWTProvider{secret: []byte(secret), now: time.Now}, nil
}

// Issue signs a token for user, valid for ttl.
func (p *JWTProvider) Issue(user core.User, ttl time.Duration) (string, error) {
	now := p.now()
	claims := jwt.MapClaims{
		"sub":  user.UserID,
		"name": user.Name,
		"iss":  issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Validate parses a token string and returns the user it names.
func (p *JWTProvider) Validate(tokenString string) (core.User, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	if err != nil {
		return core.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return core.User{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)
	return core.User{UserID: sub, Name: name}, nil
}

// CurrentUser implements SessionProvider using the Authorization header.
func (p *JWTProvider) CurrentUser(r *http.Request) (core.User, bool) {
	h := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(tok) == "" {
		return core.User{}, false
	}
	u, err := p.Validate(strings.TrimSpace(tok))
	if err != nil {
		return core.User{}, false
	}
	return u, true
}
