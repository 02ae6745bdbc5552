package caseport

import (
	"fmt"
	"log/slog"
	"time"

	"caseport/core"
	"caseport/pkg/cache"
	"caseport/services"
)

// interfaces
type (
	Provider    = core.Provider
	ProviderSet = core.ProviderSet
	RoleCache   = core.RoleCache
)

// structs
type (
	Credentials    = core.Credentials
	Identity       = core.Identity
	Session        = core.Session
	TrustedSubject = core.TrustedSubject
	DisplayHints   = core.DisplayHints
	Role           = core.Role
	Decision       = core.Decision
	NavTarget      = core.NavTarget
	MenuItem       = core.MenuItem
	UploadRecord   = core.UploadRecord
	SessionConfig  = core.SessionConfig
	UploadConfig   = core.UploadConfig
	CacheConfig    = core.CacheConfig
)

const (
	defaultBasePath  = "/api"
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	DefaultSessionConfig = core.DefaultSessionConfig
	DefaultUploadConfig  = core.DefaultUploadConfig
	ParseRole            = core.ParseRole
	NewInMemoryRoleCache = cache.NewInMemoryRoleCache
)

const (
	RoleEndUser     = core.RoleEndUser
	RoleCompanyUser = core.RoleCompanyUser
	RoleSuperadmin  = core.RoleSuperadmin
)

const (
	DecisionAllow           = core.DecisionAllow
	DecisionDeny            = core.DecisionDeny
	DecisionRedirectToLogin = core.DecisionRedirectToLogin
)

var (
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
)

var (
	ErrSessionInvalid    = core.ErrSessionInvalid
	ErrMissingAuthHeader = core.ErrMissingAuthHeader
	ErrForbidden         = core.ErrForbidden
	ErrRoleLookupFailed  = core.ErrRoleLookupFailed
)

var (
	ErrUploadRejected    = core.ErrUploadRejected
	ErrUploadMissingFile = core.ErrUploadMissingFile
	ErrUploadTooLarge    = core.ErrUploadTooLarge
	ErrUploadBadType     = core.ErrUploadBadType
	ErrStorageFailure    = core.ErrStorageFailure
)

var (
	ErrEmailRequired    = core.ErrEmailRequired
	ErrPasswordRequired = core.ErrPasswordRequired
	ErrPasswordTooShort = core.ErrPasswordTooShort
)

var (
	ErrProviderRequired    = core.ErrProviderRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrSecretRequired      = core.ErrSecretRequired
	ErrSecretTooShort      = core.ErrSecretTooShort
)

// HTTPAdapter registers the portal's routes on a concrete framework.
type HTTPAdapter interface {
	RegisterRoutes(app *App) error
}

// Config wires an App. Secret and Provider are required; everything
// else has sensible defaults.
type Config struct {
	Secret string

	Provider core.Provider

	HTTP HTTPAdapter

	// Optional config
	SessionConfig *core.SessionConfig
	UploadConfig  *core.UploadConfig

	// RoleCacheTTL > 0 enables the in-memory role cache. The default of
	// zero re-resolves the role on every request so role changes are
	// visible immediately.
	RoleCacheTTL time.Duration

	BasePath string
	Logger   *slog.Logger
}

// App holds the wired authentication and authorization services.
type App struct {
	Verifier *services.CredentialVerifier
	Sessions *services.SessionManager
	Roles    *services.RoleResolver
	Gate     *services.AccessGate
	Uploads  *services.UploadService
	Auth     *services.AuthService
	Targets  *services.TargetRegistry

	BasePath string
	Logger   *slog.Logger
}

func New(config Config) (*App, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Provider == nil {
		return nil, ErrProviderRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set defaults

	sessionConfig := config.SessionConfig
	if sessionConfig == nil {
		def := core.DefaultSessionConfig()
		sessionConfig = &def
	}

	uploadConfig := config.UploadConfig
	if uploadConfig == nil {
		def := core.DefaultUploadConfig()
		uploadConfig = &def
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var roleCache core.RoleCache
	if config.RoleCacheTTL > 0 {
		roleCache = cache.NewInMemoryRoleCache(core.CacheConfig{TTL: config.RoleCacheTTL})
	}

	verifier := services.NewCredentialVerifier(config.Provider)
	sessions := services.NewSessionManager(*sessionConfig, []byte(config.Secret))
	roles := services.NewRoleResolver(config.Provider, roleCache)
	targets := services.NewTargetRegistry()
	gate := services.NewAccessGate(roles, targets)
	uploads, err := services.NewUploadService(config.Provider, config.Provider, *uploadConfig)
	if err != nil {
		return nil, err
	}
	auth := services.NewAuthService(verifier, sessions, config.Provider)

	app := &App{
		Verifier: verifier,
		Sessions: sessions,
		Roles:    roles,
		Gate:     gate,
		Uploads:  uploads,
		Auth:     auth,
		Targets:  targets,
		BasePath: basePath,
		Logger:   logger,
	}

	if err := config.HTTP.RegisterRoutes(app); err != nil {
		return nil, err
	}

	return app, nil
}
