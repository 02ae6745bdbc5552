package services

import (
	"context"
	"fmt"

	"caseport/core"
)

// AuthService orchestrates the credential exchange: verifier on the way
// in, session manager on the way out.
type AuthService struct {
	verifier *CredentialVerifier
	sessions *SessionManager
	provider core.CredentialStore
}

func NewAuthService(verifier *CredentialVerifier, sessions *SessionManager, provider core.CredentialStore) *AuthService {
	return &AuthService{
		verifier: verifier,
		sessions: sessions,
		provider: provider,
	}
}

// SignUpInput contains the data needed to register a new user.
type SignUpInput struct {
	Email       string
	Password    string
	DisplayName *string
	Role        core.Role
}

// SignUpResult contains the newly created identity and its first session
// token.
type SignUpResult struct {
	Identity *core.Identity `json:"identity"`
	Token    string         `json:"token"`
}

const minPasswordLength = 6

// SignUp registers a new user with email, password, and an initial role.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	// Step 1: Validate locally before touching the provider
	if input.Email == "" {
		return nil, core.ErrEmailRequired
	}
	if input.Password == "" {
		return nil, core.ErrPasswordRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, core.ErrPasswordTooShort
	}

	role := input.Role
	if !role.Valid() {
		role = core.RoleEndUser
	}

	// Step 2: Create the provider record
	identity, err := s.provider.CreateUser(ctx, input.Email, input.Password, input.DisplayName, role)
	if err != nil {
		return nil, err
	}

	// Step 3: Issue the first session
	token, err := s.sessions.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &SignUpResult{Identity: identity, Token: token}, nil
}

// SignInResult contains the verified identity and a fresh session token.
type SignInResult struct {
	Identity *core.Identity `json:"identity"`
	Token    string         `json:"token"`
}

// SignIn verifies credentials and issues a session token.
func (s *AuthService) SignIn(ctx context.Context, creds core.Credentials) (*SignInResult, error) {
	identity, err := s.verifier.Verify(ctx, creds)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &SignInResult{Identity: identity, Token: token}, nil
}
