package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/attendance"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/handler/http/response"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/clock"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/jwt"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/sse"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/repository/memory"
	attendanceService "github.com/ImranNursandi/attendance-system-frontend-sub000/internal/service/attendance"
	serviceAuth "github.com/ImranNursandi/attendance-system-frontend-sub000/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "test-secret-key-for-console-sessions"

// accounts maps login emails to what the backend would put in the token.
type accounts map[string]identity.Credentials

func (a accounts) Login(ctx context.Context, req identity.LoginRequest) (identity.Credentials, error) {
	creds, ok := a[req.Email]
	if !ok {
		return identity.Credentials{}, identity.ErrInvalidCredentials
	}
	return creds, nil
}

// stubBackend applies clock actions to one record per employee.
type stubBackend struct {
	mu        sync.Mutex
	clock     clock.Clock
	records   map[string]attendance.Record
	employees []attendance.Employee
	err       error
}

func (b *stubBackend) apply(req attendance.ClockRequest, out bool) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return "", b.err
	}
	rec := b.records[req.EmployeeID]
	if out {
		rec.ClockOut = attendance.At(b.clock.Now())
		b.records[req.EmployeeID] = rec
		return "Clocked out", nil
	}
	b.records[req.EmployeeID] = attendance.Record{
		ID:         "att-" + req.EmployeeID,
		EmployeeID: req.EmployeeID,
		ClockIn:    attendance.At(b.clock.Now()),
		Status:     "late",
	}
	return "Clocked in", nil
}

func (b *stubBackend) ClockIn(ctx context.Context, token string, req attendance.ClockRequest) (string, error) {
	return b.apply(req, false)
}

func (b *stubBackend) ClockOut(ctx context.Context, token string, req attendance.ClockRequest) (string, error) {
	return b.apply(req, true)
}

func (b *stubBackend) ListAttendance(ctx context.Context, token string, query attendance.DayQuery) ([]attendance.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	var out []attendance.Record
	for _, rec := range b.records {
		out = append(out, rec)
	}
	return out, nil
}

func (b *stubBackend) ListEmployees(ctx context.Context, token string, departmentID *string) ([]attendance.Employee, error) {
	return b.employees, nil
}

type harness struct {
	server  *httptest.Server
	clock   *clock.Fake
	backend *stubBackend
	store   *memory.SessionStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	// The session cookie token is verified against the wall clock.
	fake := clock.NewFake(time.Now().Truncate(time.Second))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	exp := fake.Now().Add(8 * time.Hour)

	authn := accounts{
		"admin@example.com":    {AccessToken: "a", Email: "admin@example.com", Role: identity.RoleAdmin, EmployeeID: "emp-admin", ExpiresAt: exp},
		"manager@example.com":  {AccessToken: "m", Email: "manager@example.com", Role: identity.RoleManager, EmployeeID: "emp-mgr", ExpiresAt: exp},
		"employee@example.com": {AccessToken: "e", Email: "employee@example.com", Role: identity.RoleEmployee, EmployeeID: "emp-1", ExpiresAt: exp},
		"norole@example.com":   {AccessToken: "n", Email: "norole@example.com", Role: identity.RoleNone, ExpiresAt: exp},
	}

	backend := &stubBackend{clock: fake, records: map[string]attendance.Record{}}
	store := memory.NewSessionStore()
	hub := sse.NewHub()
	jwtService := jwt.NewJWTService(testSessionSecret, false)
	authService := serviceAuth.NewAuthService(authn, store, fake, 12*time.Hour, logger)
	screens := attendanceService.NewScreenService(backend, hub, fake, attendanceService.Options{}, logger)

	router := NewRouter(RouterDeps{
		JWTService:        jwtService,
		AuthService:       authService,
		Clock:             fake,
		Logger:            logger,
		AllowedOrigins:    []string{"http://localhost:3000"},
		AuthHandler:       NewAuthHandler(jwtService, authService, screens, logger),
		AttendanceHandler: NewAttendanceHandler(screens, hub, fake, time.Second, logger),
		PageHandler:       NewPageHandler(screens, logger),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &harness{server: server, clock: fake, backend: backend, store: store}
}

// client returns a browser-like client that keeps cookies and does not
// follow redirects.
func (h *harness) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (h *harness) loggedIn(t *testing.T, email string) *http.Client {
	t.Helper()
	c := h.client(t)
	resp := h.do(t, c, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": "password123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return c
}

func (h *harness) do(t *testing.T, c *http.Client, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, h.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

func decode(t *testing.T, resp *http.Response, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
