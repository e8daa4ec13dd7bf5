// internal/httpserver/auth.go
//
// Pilot session token.
// Launching from the menu signs an HS256 JWT naming the pilot; map and
// mission endpoints require it (Authorization: Bearer or cookie) and reject
// tokens issued for a different pilot name.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const cookieName = "gb_pilot"

// pilot is placed into request context by requirePilot.
type pilot struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
}

type ctxPilotKey struct{}

// signPilot creates a token for name with a fresh session id.
func (s *Server) signPilot(name string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(s.opts.JWTExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":  uuid.NewString(),
		"name": name,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.opts.JWTSecret))
	return ss, exp, err
}

// parsePilot validates tok and returns its claims.
func (s *Server) parsePilot(tok string) (*pilot, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, errors.New("invalid token")
	}
	sid, _ := claims["sid"].(string)
	name, _ := claims["name"].(string)
	if sid == "" || name == "" {
		return nil, errors.New("invalid token")
	}
	return &pilot{SessionID: sid, Name: name}, nil
}

// setPilotCookie writes the token cookie with appropriate security attributes.
func (s *Server) setPilotCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or the pilot cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// requirePilot enforces a valid token for the pilot currently loaded in
// the engine.
func (s *Server) requirePilot() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerOrCookie(r)
			if tok == "" {
				writeJSON(w, http.StatusUnauthorized, errorRes{Error: "unauthorized"})
				return
			}
			p, err := s.parsePilot(tok)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorRes{Error: "invalid_token"})
				return
			}
			if p.Name != s.eng.Snapshot().Profile.Name {
				writeJSON(w, http.StatusUnauthorized, errorRes{Error: "pilot_mismatch"})
				return
			}
			ctx := context.WithValue(r.Context(), ctxPilotKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func pilotFrom(ctx context.Context) *pilot {
	p, _ := ctx.Value(ctxPilotKey{}).(*pilot)
	return p
}
