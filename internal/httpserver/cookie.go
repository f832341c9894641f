// internal/httpserver/cookie.go
//
// Session cookie transport.
// The cookie value is an HS256 JWT whose "sid" claim carries the session id.
// A cookie that is missing, expired or fails verification reads as no
// session at all; handlers never see why.

package httpserver

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultCookieName   = "yahtzee_id"
	defaultCookieSecret = "dev_secret_change_me"
	cookieTTL           = 30 * 24 * time.Hour
)

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	Secret string
	Secure bool
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type cookieCodec struct {
	name   string
	secret []byte
	secure bool
}

func newCookieCodec(o CookieOptions) *cookieCodec {
	if o.Name == "" {
		o.Name = defaultCookieName
	}
	if o.Secret == "" {
		o.Secret = defaultCookieSecret
	}
	return &cookieCodec{name: o.Name, secret: []byte(o.Secret), secure: o.Secure}
}

// sessionID returns the verified session id from the request, or "".
func (c *cookieCodec) sessionID(r *http.Request) string {
	ck, err := r.Cookie(c.name)
	if err != nil || ck.Value == "" {
		return ""
	}
	claims := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(ck.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return ""
	}
	return claims.SessionID
}

// sign returns the signed cookie value for id.
func (c *cookieCodec) sign(id string, now time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cookieTTL)),
		},
	})
	return t.SignedString(c.secret)
}

// set writes the session cookie for id.
func (c *cookieCodec) set(w http.ResponseWriter, id string) error {
	now := time.Now()
	value, err := c.sign(id, now)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(cookieTTL),
	})
	return nil
}
