package services

import (
	"context"
	"errors"
	"fmt"

	"caseport/core"
)

// CredentialVerifier exchanges raw credentials for a verified identity.
type CredentialVerifier struct {
	provider core.CredentialStore
}

func NewCredentialVerifier(provider core.CredentialStore) *CredentialVerifier {
	return &CredentialVerifier{provider: provider}
}

// Verify checks a credential pair against the provider.
//
// Missing email or password is rejected locally without a provider
// round-trip. Provider-reported invalid credentials and a missing user
// record collapse to the same ErrInvalidCredentials so the response
// carries no account-enumeration signal. A genuine provider failure is
// surfaced distinctly.
func (v *CredentialVerifier) Verify(ctx context.Context, creds core.Credentials) (*core.Identity, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, core.ErrInvalidCredentials
	}

	identity, err := v.provider.VerifyCredentials(ctx, creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) || errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("credential check failed: %w", err)
	}
	if identity == nil || identity.ID == "" {
		// Provider reported success but no usable record.
		return nil, core.ErrInvalidCredentials
	}

	return identity, nil
}
