package core

import "time"

// Credentials is a raw email/password pair submitted at login.
//
// Transient by contract: used for a single verification attempt and
// never persisted or logged.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity is a verified user as reported by the identity provider.
//
// This is "who someone is" - the ID is opaque and provider-assigned.
type Identity struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName,omitempty"`
}

// TrustedSubject carries the only token field that may back an
// authorization decision: the subject id.
type TrustedSubject struct {
	ID string `json:"id"`
}

// DisplayHints are convenience fields carried in the session token.
// They are best-effort and MUST NOT be used for authorization.
type DisplayHints struct {
	Email       string  `json:"email,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

// Session is a resolved login session reconstructed from a signed token.
//
// ExpiresAt - IssuedAt is fixed at issuance and never silently extended;
// only a fresh sign-in produces a new expiry.
type Session struct {
	Subject   TrustedSubject `json:"subject"`
	Hints     DisplayHints   `json:"hints"`
	IssuedAt  time.Time      `json:"issuedAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// UploadRecord is the metadata row written after a blob lands in storage.
type UploadRecord struct {
	ID               string    `json:"id"`
	OwnerUserID      string    `json:"ownerUserId"`
	CompanyID        string    `json:"companyId"`
	OriginalFileName string    `json:"originalFileName"`
	StoredFileName   string    `json:"storedFileName"`
	UploadedAt       time.Time `json:"uploadedAt"`
}

// SessionConfig controls token issuance.
type SessionConfig struct {
	MaxAge time.Duration
}

// DefaultSessionConfig returns the portal's 30-day session lifetime.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge: 30 * 24 * time.Hour,
	}
}

// UploadConfig controls local upload validation. Both limits are checked
// before any provider call is made.
type UploadConfig struct {
	MaxSize      int64
	AllowedTypes []string
}

// DefaultUploadConfig mirrors the portal's upload form: 5 MB max, PDF or
// JPEG/PNG images only.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		MaxSize:      5_000_000,
		AllowedTypes: []string{"application/pdf", "image/jpeg", "image/png"},
	}
}

// Allows reports whether contentType passes the allow-list.
func (c UploadConfig) Allows(contentType string) bool {
	for _, t := range c.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
