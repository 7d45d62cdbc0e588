// Package backend is the HTTP client for the attendance REST API.
// All calls carry the session's access token; login is the only anonymous call.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/attendance"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/jwt"
)

// ErrUnavailable wraps transport failures (connection refused, timeouts).
var ErrUnavailable = errors.New("attendance backend unavailable")

// Error is a non-2xx answer from the backend.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap lets a rejected access token surface as identity.ErrInvalidToken.
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return identity.ErrInvalidToken
	}
	return nil
}

// Transient reports whether retrying later may succeed.
func (e *Error) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
	logger     *slog.Logger
}

// NewClient builds a backend client. loc is used for timestamps the backend
// sends without a zone.
func NewClient(baseURL string, timeout time.Duration, loc *time.Location, logger *slog.Logger) *Client {
	if loc == nil {
		loc = time.UTC
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		location:   loc,
		logger:     logger.With(slog.String("component", "backend_client")),
	}
}

// ========================================
// AUTH
// ========================================

type loginPayload struct {
	AccessToken string `json:"access_token"`
}

// Login implements identity.Authenticator.
func (c *Client) Login(ctx context.Context, req identity.LoginRequest) (identity.Credentials, error) {
	var payload loginPayload
	msg, err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &payload)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusBadRequest) {
			return identity.Credentials{}, identity.ErrInvalidCredentials
		}
		return identity.Credentials{}, err
	}
	if payload.AccessToken == "" {
		return identity.Credentials{}, fmt.Errorf("login response without access token: %s", msg)
	}

	creds, err := jwt.ParseBackendToken(payload.AccessToken)
	if err != nil {
		return identity.Credentials{}, err
	}
	if creds.Email == "" {
		creds.Email = req.Email
	}
	return creds, nil
}

// ========================================
// ATTENDANCE
// ========================================

type recordPayload struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	ClockInTime  *string `json:"clock_in_time"`
	ClockOutTime *string `json:"clock_out_time"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes"`
}

type employeePayload struct {
	ID             string  `json:"id"`
	FullName       string  `json:"full_name"`
	EmployeeCode   string  `json:"employee_code"`
	DepartmentID   *string `json:"department_id"`
	DepartmentName *string `json:"department_name"`
	PositionName   *string `json:"position_name"`
}

func (c *Client) ClockIn(ctx context.Context, token string, req attendance.ClockRequest) (string, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/attendance/clock-in", token, req, nil)
}

func (c *Client) ClockOut(ctx context.Context, token string, req attendance.ClockRequest) (string, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/attendance/clock-out", token, req, nil)
}

func (c *Client) ListAttendance(ctx context.Context, token string, query attendance.DayQuery) ([]attendance.Record, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("attendance query: %w", err)
	}

	params := url.Values{}
	params.Set("start_date", query.StartDate)
	params.Set("end_date", query.EndDate)
	if query.DepartmentID != nil && *query.DepartmentID != "" {
		params.Set("department_id", *query.DepartmentID)
	}
	if query.EmployeeID != nil && *query.EmployeeID != "" {
		params.Set("employee_id", *query.EmployeeID)
	}

	var payloads []recordPayload
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/attendance?"+params.Encode(), token, nil, listInto(&payloads)); err != nil {
		return nil, err
	}

	records := make([]attendance.Record, 0, len(payloads))
	for _, p := range payloads {
		records = append(records, attendance.Record{
			ID:           p.ID,
			EmployeeID:   p.EmployeeID,
			EmployeeName: p.EmployeeName,
			Date:         p.Date,
			ClockIn:      parseStamp(p.ClockInTime, c.location),
			ClockOut:     parseStamp(p.ClockOutTime, c.location),
			Status:       p.Status,
			Notes:        p.Notes,
		})
	}
	return records, nil
}

func (c *Client) ListEmployees(ctx context.Context, token string, departmentID *string) ([]attendance.Employee, error) {
	path := "/api/v1/employees"
	if departmentID != nil && *departmentID != "" {
		path += "?" + url.Values{"department_id": {*departmentID}}.Encode()
	}

	var payloads []employeePayload
	if _, err := c.do(ctx, http.MethodGet, path, token, nil, listInto(&payloads)); err != nil {
		return nil, err
	}

	employees := make([]attendance.Employee, 0, len(payloads))
	for _, p := range payloads {
		employees = append(employees, attendance.Employee{
			ID:           p.ID,
			Name:         p.FullName,
			Code:         p.EmployeeCode,
			DepartmentID: p.DepartmentID,
			Department:   p.DepartmentName,
			Position:     p.PositionName,
		})
	}
	return employees, nil
}

func parseStamp(raw *string, loc *time.Location) *attendance.Stamp {
	if raw == nil {
		return nil
	}
	return attendance.ParseStamp(*raw, loc)
}

// ========================================
// TRANSPORT
// ========================================

// listDecoder accepts both a bare array and a paginated object in data.
type listDecoder struct {
	target interface{}
}

func listInto(target interface{}) *listDecoder {
	return &listDecoder{target: target}
}

func (l *listDecoder) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, l.target)
	}

	var page map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return err
	}
	for _, key := range []string{"items", "data", "attendances", "employees"} {
		if raw, ok := page[key]; ok {
			return json.Unmarshal(raw, l.target)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body interface{}, out interface{}) (string, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		c.logger.Warn("Backend request failed", "method", method, "path", path, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	c.logger.Debug("Backend request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if decodeErr == nil {
			if env.Error != nil {
				apiErr.Code = env.Error.Code
				apiErr.Message = env.Error.Message
			} else if env.Message != "" {
				apiErr.Message = env.Message
			}
		}
		return "", apiErr
	}

	if decodeErr != nil {
		return "", fmt.Errorf("decode %s %s response: %w", method, path, decodeErr)
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}

	return env.Message, nil
}
