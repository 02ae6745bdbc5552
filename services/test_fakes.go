package services

import (
	"bytes"
	"context"
	"io"
	"sync"

	"caseport/core"
)

// FakeProvider is a test-only fake implementing core.Provider. It keeps
// users, blobs, and records in maps, counts provider calls so tests can
// assert fail-fast behavior, and exposes error fields for behavior
// injection.
type FakeProvider struct {
	mu sync.RWMutex

	users   map[string]*fakeUser // keyed by identity id
	byEmail map[string]string    // email -> identity id
	blobs   map[string][]byte
	records []*core.UploadRecord

	verifyErr error
	createErr error
	roleErr   error
	blobErr   error
	recordErr error

	verifyCalls int
	roleCalls   int
	blobCalls   int
	recordCalls int
}

type fakeUser struct {
	identity core.Identity
	password string
	rawRole  string // stored as written, may be garbage
	hasRole  bool
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		users:   make(map[string]*fakeUser),
		byEmail: make(map[string]string),
		blobs:   make(map[string][]byte),
	}
}

var _ core.Provider = (*FakeProvider)(nil)

// AddUser seeds a user. An empty rawRole means no role record exists.
func (f *FakeProvider) AddUser(identity core.Identity, password, rawRole string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[identity.ID] = &fakeUser{
		identity: identity,
		password: password,
		rawRole:  rawRole,
		hasRole:  rawRole != "",
	}
	f.byEmail[identity.Email] = identity.ID
}

// SetRawRole overwrites the stored role value, simulating an
// administrator change made directly in the provider.
func (f *FakeProvider) SetRawRole(identityID, rawRole string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[identityID]; ok {
		u.rawRole = rawRole
		u.hasRole = rawRole != ""
	}
}

func (f *FakeProvider) VerifyCredentials(ctx context.Context, email, password string) (*core.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++

	if f.verifyErr != nil {
		return nil, f.verifyErr
	}

	id, ok := f.byEmail[email]
	if !ok {
		return nil, core.ErrInvalidCredentials
	}
	u := f.users[id]
	if u.password != password {
		return nil, core.ErrInvalidCredentials
	}
	identity := u.identity
	return &identity, nil
}

func (f *FakeProvider) CreateUser(ctx context.Context, email, password string, displayName *string, role core.Role) (*core.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.byEmail[email]; exists {
		return nil, core.ErrUserExists
	}

	identity := core.Identity{
		ID:          "fake-" + email,
		Email:       email,
		DisplayName: displayName,
	}
	f.users[identity.ID] = &fakeUser{
		identity: identity,
		password: password,
		rawRole:  string(role),
		hasRole:  true,
	}
	f.byEmail[email] = identity.ID
	return &identity, nil
}

func (f *FakeProvider) GetRole(ctx context.Context, identityID string) (core.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++

	if f.roleErr != nil {
		return "", f.roleErr
	}

	u, ok := f.users[identityID]
	if !ok || !u.hasRole {
		return "", core.ErrRoleNotFound
	}
	return core.Role(u.rawRole), nil
}

func (f *FakeProvider) PutBlob(ctx context.Context, key, contentType string, data io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobCalls++

	if f.blobErr != nil {
		return f.blobErr
	}

	var buf bytes.Buffer
	if data != nil {
		if _, err := io.Copy(&buf, data); err != nil {
			return err
		}
	}
	f.blobs[key] = buf.Bytes()
	return nil
}

func (f *FakeProvider) CreateUploadRecord(ctx context.Context, rec *core.UploadRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordCalls++

	if f.recordErr != nil {
		return f.recordErr
	}

	stored := *rec
	f.records = append(f.records, &stored)
	return nil
}

// Error injection helpers

func (f *FakeProvider) SetVerifyError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyErr = err
}

func (f *FakeProvider) SetRoleError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleErr = err
}

func (f *FakeProvider) SetBlobError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobErr = err
}

func (f *FakeProvider) SetRecordError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordErr = err
}

// Call counters

func (f *FakeProvider) VerifyCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.verifyCalls
}

func (f *FakeProvider) RoleCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.roleCalls
}

func (f *FakeProvider) BlobCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.blobCalls
}

func (f *FakeProvider) RecordCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.recordCalls
}

// State inspection helpers

func (f *FakeProvider) Blob(key string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.blobs[key]
	return b, ok
}

func (f *FakeProvider) Records() []*core.UploadRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*core.UploadRecord, len(f.records))
	copy(out, f.records)
	return out
}

// FakeRoleCache is a test-only fake implementing core.RoleCache.
type FakeRoleCache struct {
	mu    sync.RWMutex
	roles map[string]core.Role
}

func NewFakeRoleCache() *FakeRoleCache {
	return &FakeRoleCache{roles: make(map[string]core.Role)}
}

func (f *FakeRoleCache) Get(identityID string) (core.Role, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	role, ok := f.roles[identityID]
	if !ok {
		return "", core.ErrCacheNotFound
	}
	return role, nil
}

func (f *FakeRoleCache) Set(identityID string, role core.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[identityID] = role
	return nil
}

func (f *FakeRoleCache) Delete(identityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.roles, identityID)
	return nil
}

func (f *FakeRoleCache) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles = make(map[string]core.Role)
	return nil
}
