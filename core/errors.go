package core

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	// ErrInvalidCredentials covers bad passwords, unknown emails, and
	// provider-side success with a missing user record. They collapse to
	// one value so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password") // 401 Unauthorized

	ErrUserExists   = errors.New("user already exists") // 409 Conflict
	ErrUserNotFound = errors.New("user not found")      // 404 Not Found
)

// Session errors. Bad signature, malformed token, and expired token are
// distinguished internally via wrapping but all match ErrSessionInvalid.
var (
	ErrSessionInvalid    = errors.New("not authenticated")            // 401
	ErrMissingAuthHeader = errors.New("missing authorization header") // 401
	ErrCacheNotFound     = errors.New("entry not found in cache")
)

// Authorization errors
var (
	// ErrForbidden means the caller is authenticated but its resolved
	// role is outside the target's allowed set.
	ErrForbidden = errors.New("insufficient role") // 403
)

// Role resolution errors
var (
	// ErrRoleNotFound marks an absent role record; resolution defaults it
	// to end_user.
	ErrRoleNotFound = errors.New("role not found")

	// ErrRoleLookupFailed marks a genuine provider failure. It must be
	// surfaced, never silently defaulted.
	ErrRoleLookupFailed = errors.New("role lookup failed") // 500
)

// Upload errors. The three rejection variants wrap ErrUploadRejected so
// handlers can match the whole class.
var (
	ErrUploadRejected    = errors.New("upload rejected")                              // 400
	ErrUploadMissingFile = fmt.Errorf("%w: no file uploaded", ErrUploadRejected)      // 400
	ErrUploadTooLarge    = fmt.Errorf("%w: file exceeds size limit", ErrUploadRejected) // 400
	ErrUploadBadType     = fmt.Errorf("%w: unsupported file type", ErrUploadRejected) // 400

	// ErrStorageFailure covers blob or record writes that fail after
	// validation passed.
	ErrStorageFailure = errors.New("storage operation failed") // 500
)

// Validation errors (client input)
var (
	ErrEmailRequired    = errors.New("email is required")    // 400
	ErrPasswordRequired = errors.New("password is required") // 400
	ErrPasswordTooShort = errors.New("password is too short") // 400
)

// Config errors (server-side configuration)
var (
	ErrProviderRequired    = errors.New("identity provider is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")      // 500
	ErrSecretRequired      = errors.New("secret is required")            // 500
	ErrSecretTooShort      = errors.New("secret too short")              // 500
)
