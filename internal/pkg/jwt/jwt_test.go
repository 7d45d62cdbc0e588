package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-console"

// backendToken signs a token the way the attendance backend does.
func backendToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("backend-only-secret"), nil)
	_, token, err := ja.Encode(claims)
	require.NoError(t, err)
	return token
}

func TestParseBackendToken_ReadsRoleContext(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := backendToken(t, map[string]interface{}{
		"user_id":     "u-1",
		"email":       "manager@example.com",
		"employee_id": "emp-7",
		"role":        "manager",
		"type":        "access",
		"exp":         exp.Unix(),
	})

	creds, err := ParseBackendToken(token)

	require.NoError(t, err)
	assert.Equal(t, identity.RoleManager, creds.Role)
	assert.Equal(t, "emp-7", creds.EmployeeID)
	assert.Equal(t, "manager@example.com", creds.Email)
	assert.True(t, exp.Equal(creds.ExpiresAt))
	assert.Equal(t, token, creds.AccessToken)
}

func TestParseBackendToken_UnknownRoleHasNoPrivileges(t *testing.T) {
	token := backendToken(t, map[string]interface{}{
		"role": "owner",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	creds, err := ParseBackendToken(token)

	require.NoError(t, err)
	assert.Equal(t, identity.RoleNone, creds.Role)
}

func TestParseBackendToken_Rejects(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		_, err := ParseBackendToken("not-a-jwt")
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		token := backendToken(t, map[string]interface{}{"role": "admin"})
		_, err := ParseBackendToken(token)
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})
}

func verifiedSessionID(t *testing.T, svc Service, cookieValue string) (string, error) {
	t.Helper()

	var (
		gotID  string
		gotErr error
	)
	handler := jwtauth.Verify(svc.JWTAuth(), svc.TokenFromCookie)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotErr = svc.SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookieValue})
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	return gotID, gotErr
}

func TestSessionToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, false)

	token, err := svc.GenerateSessionToken("0190c2a4-1111-7abc-8def-0123456789ab", time.Now().Add(time.Hour))
	require.NoError(t, err)

	id, err := verifiedSessionID(t, svc, token)
	require.NoError(t, err)
	assert.Equal(t, "0190c2a4-1111-7abc-8def-0123456789ab", id)
}

func TestSessionToken_RejectsForeignAndMissingTokens(t *testing.T) {
	svc := NewJWTService(testSecret, false)

	t.Run("no cookie", func(t *testing.T) {
		_, err := verifiedSessionID(t, svc, "")
		assert.Error(t, err)
	})

	t.Run("signed with another key", func(t *testing.T) {
		other := NewJWTService("another-secret", false)
		token, err := other.GenerateSessionToken("sid", time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, err = verifiedSessionID(t, svc, token)
		assert.Error(t, err)
	})

	t.Run("wrong token type", func(t *testing.T) {
		_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
			"session_id": "sid",
			"type":       "access",
			"exp":        time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		_, err = verifiedSessionID(t, svc, token)
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.GenerateSessionToken("sid", time.Now().Add(-time.Hour))
		require.NoError(t, err)

		_, err = verifiedSessionID(t, svc, token)
		assert.Error(t, err)
	})
}

func TestSessionCookies(t *testing.T) {
	svc := NewJWTService(testSecret, true)
	exp := time.Now().Add(time.Hour)

	set := svc.SessionCookie("token", exp)
	assert.Equal(t, SessionCookieName, set.Name)
	assert.True(t, set.HttpOnly)
	assert.True(t, set.Secure)
	assert.Equal(t, exp, set.Expires)

	cleared := svc.ClearSessionCookie()
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}
