package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// SessionCookieName is the cookie carrying the signed console session token.
const SessionCookieName = "console_session"

const tokenTypeSession = "session"

type Service interface {
	GenerateSessionToken(sessionID string, expiresAt time.Time) (token string, err error)
	SessionIDFromContext(ctx context.Context) (string, error)
	JWTAuth() *jwtauth.JWTAuth
	TokenFromCookie(r *http.Request) string
	SessionCookie(token string, expiresAt time.Time) *http.Cookie
	ClearSessionCookie() *http.Cookie
}

type JWTService struct {
	tokenAuth    *jwtauth.JWTAuth
	cookieSecure bool
}

func NewJWTService(secretKey string, cookieSecure bool) Service {
	return &JWTService{
		tokenAuth:    jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		cookieSecure: cookieSecure,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateSessionToken signs a token that only references the stored session.
// Role and employee id are always read from the store, never from the cookie.
func (j *JWTService) GenerateSessionToken(sessionID string, expiresAt time.Time) (string, error) {
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"session_id": sessionID,
		"type":       tokenTypeSession,
		"exp":        expiresAt.Unix(),
	})
	return tokenString, err
}

// SessionIDFromContext reads the session id verified by jwtauth.Verify.
func (j *JWTService) SessionIDFromContext(ctx context.Context) (string, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", identity.ErrInvalidToken
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != tokenTypeSession {
		return "", identity.ErrInvalidToken
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", identity.ErrInvalidToken
	}

	return sessionID, nil
}

// TokenFromCookie is a jwtauth token finder for the session cookie.
func (j *JWTService) TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (j *JWTService) SessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   j.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ParseBackendToken reads the role context out of a backend access token.
// The console does not hold the backend's signing key; the token came
// straight from the backend's login response and is only decoded here.
func ParseBackendToken(accessToken string) (identity.Credentials, error) {
	token, err := jwt.ParseString(accessToken, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return identity.Credentials{}, fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}

	creds := identity.Credentials{
		AccessToken: accessToken,
		ExpiresAt:   token.Expiration(),
		Role:        identity.ParseRole(claimString(token, "role")),
		EmployeeID:  claimString(token, "employee_id"),
		Email:       claimString(token, "email"),
	}

	if creds.ExpiresAt.IsZero() {
		return identity.Credentials{}, errors.Join(identity.ErrInvalidToken, errors.New("access token has no expiry"))
	}

	return creds, nil
}

func claimString(token jwt.Token, name string) string {
	v, ok := token.Get(name)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
