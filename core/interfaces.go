package core

import (
	"context"
	"io"
	"time"
)

// Ports define interfaces for the external Identity & Storage Provider.
// Every component takes the narrowest port it needs so tests can swap in
// fakes without global state.

// ============================================
// PROVIDER PORTS
// ============================================

// CredentialStore exchanges raw credentials for a verified identity and
// registers new users.
type CredentialStore interface {
	// VerifyCredentials returns the identity for a valid email/password
	// pair. Rejections of any kind return ErrInvalidCredentials.
	VerifyCredentials(ctx context.Context, email, password string) (*Identity, error)

	// CreateUser registers a new user with an initial role. A duplicate
	// email returns ErrUserExists.
	CreateUser(ctx context.Context, email, password string, displayName *string, role Role) (*Identity, error)
}

// RoleStore looks up the stored role for an identity. An absent record
// returns ErrRoleNotFound; any other error is a genuine provider failure.
type RoleStore interface {
	GetRole(ctx context.Context, identityID string) (Role, error)
}

// RecordStore persists upload metadata records.
type RecordStore interface {
	CreateUploadRecord(ctx context.Context, rec *UploadRecord) error
}

// BlobStore persists uploaded file contents under an opaque key.
type BlobStore interface {
	PutBlob(ctx context.Context, key, contentType string, data io.Reader) error
}

// Provider is the full Identity & Storage Provider surface.
type Provider interface {
	CredentialStore
	RoleStore
	RecordStore
	BlobStore
}

// ProviderSet combines independent port implementations into a Provider.
// Typical wiring: Postgres for credentials, roles, and records; S3 for
// blobs.
type ProviderSet struct {
	Credentials CredentialStore
	Roles       RoleStore
	Records     RecordStore
	Blobs       BlobStore
}

var _ Provider = (*ProviderSet)(nil)

func (p *ProviderSet) VerifyCredentials(ctx context.Context, email, password string) (*Identity, error) {
	return p.Credentials.VerifyCredentials(ctx, email, password)
}

func (p *ProviderSet) CreateUser(ctx context.Context, email, password string, displayName *string, role Role) (*Identity, error) {
	return p.Credentials.CreateUser(ctx, email, password, displayName, role)
}

func (p *ProviderSet) GetRole(ctx context.Context, identityID string) (Role, error) {
	return p.Roles.GetRole(ctx, identityID)
}

func (p *ProviderSet) CreateUploadRecord(ctx context.Context, rec *UploadRecord) error {
	return p.Records.CreateUploadRecord(ctx, rec)
}

func (p *ProviderSet) PutBlob(ctx context.Context, key, contentType string, data io.Reader) error {
	return p.Blobs.PutBlob(ctx, key, contentType, data)
}

// ============================================
// CACHE PORT
// ============================================

// RoleCache defines optional role caching. The resolver only consults it
// when a non-zero TTL was configured; a downgrade must become visible
// within that TTL.
type RoleCache interface {
	Get(identityID string) (Role, error)
	Set(identityID string, role Role) error
	Delete(identityID string) error
	Clear() error
}

// CacheConfig configures cache behavior.
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats tracks cache performance metrics.
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}
