package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"caseport/core"
)

// SessionManager issues, renews, and resolves signed session tokens.
//
// Tokens are stateless HS256 JWTs: the server keeps no per-session state
// beyond the signing secret, so any replica holding the same secret can
// resolve any token. Only the subject id claim is authoritative; the
// email/name claims are display hints.
type SessionManager struct {
	secret []byte
	config core.SessionConfig
	now    func() time.Time
}

// SessionClaims is the token payload. Email and Name mirror the identity
// at issuance but must never back an authorization decision.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func NewSessionManager(config core.SessionConfig, secret []byte) *SessionManager {
	if config.MaxAge == 0 {
		config = core.DefaultSessionConfig()
	}
	return &SessionManager{
		secret: secret,
		config: config,
		now:    time.Now,
	}
}

// Issue creates a fresh session token for a verified identity with
// expiry now + MaxAge.
func (sm *SessionManager) Issue(identity *core.Identity) (string, error) {
	if identity == nil || identity.ID == "" {
		return "", core.ErrSessionInvalid
	}

	now := sm.now().UTC()
	claims := SessionClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.config.MaxAge)),
		},
	}
	if identity.DisplayName != nil {
		claims.Name = *identity.DisplayName
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(sm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Resolve verifies signature and expiry and reconstructs the session.
//
// Any failure - bad signature, malformed token, expired token - is
// reported as ErrSessionInvalid; the underlying cause is wrapped for
// diagnostics but callers treat all of them as "not authenticated".
func (sm *SessionManager) Resolve(token string) (*core.Session, error) {
	claims, err := sm.parse(token)
	if err != nil {
		return nil, err
	}
	return sessionFromClaims(claims), nil
}

// Renew returns a token for a request that already carries a valid,
// non-expired one.
//
// A plain continuation (fresh == nil) is a touch: the returned token
// preserves the original issue and expiry instants. Only an explicit
// re-authentication (fresh != nil) produces a new expiry. Confusing the
// two silently extends sessions, which this split guards against.
func (sm *SessionManager) Renew(token string, fresh *core.Identity) (string, error) {
	claims, err := sm.parse(token)
	if err != nil {
		return "", err
	}

	if fresh != nil {
		if fresh.ID != claims.Subject {
			return "", fmt.Errorf("%w: subject mismatch on reissue", core.ErrSessionInvalid)
		}
		return sm.Issue(fresh)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(sm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (sm *SessionManager) parse(token string) (*SessionClaims, error) {
	if token == "" {
		return nil, core.ErrSessionInvalid
	}

	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return sm.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(sm.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSessionInvalid, err)
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, core.ErrSessionInvalid
	}
	return claims, nil
}

func sessionFromClaims(claims *SessionClaims) *core.Session {
	session := &core.Session{
		Subject: core.TrustedSubject{ID: claims.Subject},
		Hints:   core.DisplayHints{Email: claims.Email},
	}
	if claims.Name != "" {
		name := claims.Name
		session.Hints.DisplayName = &name
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session
}
