package fiber

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"caseport"
	"caseport/core"
	"caseport/services"
)

// Requirement: every error class maps to its documented status code.
func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: http.StatusOK},
		{name: "invalid credentials", err: caseport.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "session invalid", err: caseport.ErrSessionInvalid, want: http.StatusUnauthorized},
		{name: "wrapped session invalid", err: fmt.Errorf("%w: token expired", caseport.ErrSessionInvalid), want: http.StatusUnauthorized},
		{name: "missing auth header", err: caseport.ErrMissingAuthHeader, want: http.StatusUnauthorized},
		{name: "forbidden", err: caseport.ErrForbidden, want: http.StatusForbidden},
		{name: "user exists", err: caseport.ErrUserExists, want: http.StatusConflict},
		{name: "user not found", err: caseport.ErrUserNotFound, want: http.StatusNotFound},
		{name: "upload missing file", err: caseport.ErrUploadMissingFile, want: http.StatusBadRequest},
		{name: "upload too large", err: caseport.ErrUploadTooLarge, want: http.StatusBadRequest},
		{name: "upload bad type", err: caseport.ErrUploadBadType, want: http.StatusBadRequest},
		{name: "email required", err: caseport.ErrEmailRequired, want: http.StatusBadRequest},
		{name: "password too short", err: caseport.ErrPasswordTooShort, want: http.StatusBadRequest},
		{name: "role lookup failure", err: caseport.ErrRoleLookupFailed, want: http.StatusInternalServerError},
		{name: "storage failure", err: caseport.ErrStorageFailure, want: http.StatusInternalServerError},
		{name: "unknown error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := mapErrorToStatus(test.err); got != test.want {
				t.Errorf("mapErrorToStatus(%v) = %d, want %d", test.err, got, test.want)
			}
		})
	}
}

const testSecret = "01234567890123456789012345678901"

// newTestApp wires a full portal on a fiber app backed by a fake
// provider, for request-level tests.
func newTestApp(t *testing.T, provider *services.FakeProvider) (*fiber.App, *caseport.App) {
	t.Helper()

	app := fiber.New()
	cp, err := caseport.New(caseport.Config{
		Secret:   testSecret,
		Provider: provider,
		HTTP:     New(app),
	})
	if err != nil {
		t.Fatalf("caseport.New() error = %v", err)
	}
	return app, cp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

// Requirement: sign-in returns a token on success and a uniform 401 on
// bad credentials.
func TestSignInRoute(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{name: "valid credentials", email: "a@example.com", password: "secret123", wantStatus: http.StatusOK},
		{name: "wrong password", email: "a@example.com", password: "wrong", wantStatus: http.StatusUnauthorized},
		{name: "unknown account", email: "nobody@example.com", password: "secret123", wantStatus: http.StatusUnauthorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			provider := services.NewFakeProvider()
			provider.AddUser(core.Identity{ID: "user123", Email: "a@example.com"}, "secret123", "end_user")
			app, _ := newTestApp(t, provider)

			payload, _ := json.Marshal(map[string]string{"email": test.email, "password": test.password})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")

			// Act
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}

			// Assert
			if resp.StatusCode != test.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, test.wantStatus)
			}
			body := decodeBody(t, resp)
			if test.wantStatus == http.StatusOK {
				if body["token"] == "" || body["token"] == nil {
					t.Error("response carries no token")
				}
			} else {
				if body["redirect"] != "/login" {
					t.Errorf("redirect = %v, want /login", body["redirect"])
				}
			}
		})
	}
}

// Requirement: protected routes reject missing, malformed, and absent
// tokens with 401 and the login redirect.
func TestProtectedRoutes_Unauthorized(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header string
	}{
		{name: "no token", path: "/api/dashboard/menu", header: ""},
		{name: "malformed bearer token", path: "/api/dashboard/menu", header: "Bearer not.a.jwt"},
		{name: "non-bearer header", path: "/api/dashboard/menu", header: "Basic dXNlcjpwYXNz"},
		{name: "companies without token", path: "/api/companies", header: ""},
		{name: "reports without token", path: "/api/reports", header: ""},
		{name: "upload without token", path: "/api/upload", header: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			app, _ := newTestApp(t, services.NewFakeProvider())
			method := http.MethodGet
			if test.path == "/api/upload" {
				method = http.MethodPost
			}
			req := httptest.NewRequest(method, test.path, nil)
			if test.header != "" {
				req.Header.Set("Authorization", test.header)
			}

			// Act
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}

			// Assert
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", resp.StatusCode)
			}
			body := decodeBody(t, resp)
			if body["redirect"] != "/login" {
				t.Errorf("redirect = %v, want /login", body["redirect"])
			}
		})
	}
}

func signInToken(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign-in status = %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("sign-in returned no token")
	}
	return token
}

// Requirement: the menu endpoint returns the role-shaped menu for the
// authenticated caller.
func TestMenuRoute(t *testing.T) {
	tests := []struct {
		name      string
		rawRole   string
		wantItems int
	}{
		{name: "end_user menu", rawRole: "end_user", wantItems: 3},
		{name: "company_user menu", rawRole: "company_user", wantItems: 5},
		{name: "superadmin menu", rawRole: "superadmin", wantItems: 8},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			provider := services.NewFakeProvider()
			provider.AddUser(core.Identity{ID: "user123", Email: "a@example.com"}, "secret123", test.rawRole)
			app, _ := newTestApp(t, provider)
			token := signInToken(t, app, "a@example.com", "secret123")

			req := httptest.NewRequest(http.MethodGet, "/api/dashboard/menu", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			// Act
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}

			// Assert
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			body := decodeBody(t, resp)
			items, _ := body["items"].([]any)
			if len(items) != test.wantItems {
				t.Errorf("menu has %d items, want %d", len(items), test.wantItems)
			}
		})
	}
}

// Requirement: privileged API routes re-run the role check; a valid
// session with the wrong role gets 403, the right role gets through.
func TestRoleGatedRoutes(t *testing.T) {
	tests := []struct {
		name       string
		rawRole    string
		path       string
		wantStatus int
	}{
		{name: "end_user blocked from companies", rawRole: "end_user", path: "/api/companies", wantStatus: http.StatusForbidden},
		{name: "company_user blocked from companies", rawRole: "company_user", path: "/api/companies", wantStatus: http.StatusForbidden},
		{name: "superadmin reaches companies", rawRole: "superadmin", path: "/api/companies", wantStatus: http.StatusOK},
		{name: "end_user blocked from reports", rawRole: "end_user", path: "/api/reports", wantStatus: http.StatusForbidden},
		{name: "company_user reaches reports", rawRole: "company_user", path: "/api/reports", wantStatus: http.StatusOK},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			provider := services.NewFakeProvider()
			provider.AddUser(core.Identity{ID: "user123", Email: "a@example.com"}, "secret123", test.rawRole)
			app, _ := newTestApp(t, provider)
			token := signInToken(t, app, "a@example.com", "secret123")

			req := httptest.NewRequest(http.MethodGet, test.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)

			// Act
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}

			// Assert
			if resp.StatusCode != test.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, test.wantStatus)
			}
		})
	}
}

// Requirement: the role query endpoint reports end_user for accounts
// without a role record.
func TestUserRoleRoute(t *testing.T) {
	// Arrange
	provider := services.NewFakeProvider()
	provider.AddUser(core.Identity{ID: "user123", Email: "a@example.com"}, "secret123", "")
	app, _ := newTestApp(t, provider)
	token := signInToken(t, app, "a@example.com", "secret123")

	req := httptest.NewRequest(http.MethodGet, "/api/users/user123/role", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["role"] != "end_user" {
		t.Errorf("role = %v, want end_user", body["role"])
	}
}

func multipartUpload(t *testing.T, fieldContentType, fileName string, size int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", fieldContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	if _, err := io.Copy(part, strings.NewReader(strings.Repeat("a", size))); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.WriteField("companyId", "acme"); err != nil {
		t.Fatalf("WriteField() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return &buf, writer.FormDataContentType()
}

// Requirement: the upload route accepts an allowed file and rejects a
// disallowed content type with 400.
func TestUploadRoute(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		fileName    string
		size        int
		wantStatus  int
	}{
		{name: "pdf accepted", contentType: "application/pdf", fileName: "doc.pdf", size: 1024, wantStatus: http.StatusCreated},
		{name: "png accepted", contentType: "image/png", fileName: "scan.png", size: 1024, wantStatus: http.StatusCreated},
		{name: "video rejected", contentType: "video/mp4", fileName: "movie.mp4", size: 1024, wantStatus: http.StatusBadRequest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			provider := services.NewFakeProvider()
			provider.AddUser(core.Identity{ID: "user123", Email: "a@example.com"}, "secret123", "end_user")
			app, _ := newTestApp(t, provider)
			token := signInToken(t, app, "a@example.com", "secret123")

			body, contentType := multipartUpload(t, test.contentType, test.fileName, test.size)
			req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", contentType)

			// Act
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}

			// Assert
			if resp.StatusCode != test.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, test.wantStatus)
			}
			if test.wantStatus == http.StatusCreated {
				records := provider.Records()
				if len(records) != 1 {
					t.Fatalf("got %d records, want 1", len(records))
				}
				if records[0].OwnerUserID != "user123" {
					t.Errorf("record owner = %q, want the authenticated subject", records[0].OwnerUserID)
				}
				if records[0].CompanyID != "acme" {
					t.Errorf("record company = %q, want acme", records[0].CompanyID)
				}
			}
		})
	}
}

// Requirement: the stats endpoint serves the same fixed counters to
// every authenticated caller.
func TestStatsRoute(t *testing.T) {
	// Arrange
	provider := services.NewFakeProvider()
	provider.AddUser(core.Identity{ID: "user123", Email: "a@example.com"}, "secret123", "end_user")
	app, _ := newTestApp(t, provider)
	token := signInToken(t, app, "a@example.com", "secret123")

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	want := map[string]float64{
		"totalCases":     47,
		"activeCases":    12,
		"completedCases": 32,
		"pendingReview":  3,
	}
	for key, value := range want {
		if body[key] != value {
			t.Errorf("%s = %v, want %v", key, body[key], value)
		}
	}
}

// Requirement: the cookie fallback authenticates a request without an
// Authorization header.
func TestAuthCookieFallback(t *testing.T) {
	// Arrange
	provider := services.NewFakeProvider()
	provider.AddUser(core.Identity{ID: "user123", Email: "a@example.com"}, "secret123", "end_user")
	app, _ := newTestApp(t, provider)
	token := signInToken(t, app, "a@example.com", "secret123")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})

	// Act
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
