package fiber

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"caseport"
	"caseport/pkg/metrics"
)

// Adapter mounts the portal's HTTP surface on a Fiber app.
type Adapter struct {
	app       *fiber.App
	collector *metrics.Collector // optional
	log       *slog.Logger
	cp        *caseport.App
}

var _ caseport.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

// WithMetrics attaches a metrics collector to the adapter.
func (a *Adapter) WithMetrics(c *metrics.Collector) *Adapter {
	a.collector = c
	return a
}

func (a *Adapter) RegisterRoutes(cp *caseport.App) error {
	a.cp = cp
	a.log = cp.Logger

	api := a.app.Group(cp.BasePath)

	// Public routes
	api.Post("/auth/sign-up", a.signUp)
	api.Post("/auth/sign-in", a.signIn)

	// Protected routes. requireAuth runs first, resolves the token, and
	// stores the session in the request context.
	api.Get("/auth/session", a.requireAuth, a.session)
	api.Post("/auth/renew", a.requireAuth, a.renew)
	api.Get("/users/:id/role", a.requireAuth, a.userRole)
	api.Post("/upload", a.requireAuth, a.upload)
	api.Get("/dashboard/menu", a.requireAuth, a.menu)
	api.Get("/dashboard/stats", a.requireAuth, a.stats)

	// Privileged API operations re-run the role check server-side; the
	// menu gate alone is never the boundary.
	api.Get("/companies", a.requireAuth, a.requireRole(caseport.RoleSuperadmin), a.listCompanies)
	api.Get("/reports", a.requireAuth, a.requireRole(caseport.RoleCompanyUser, caseport.RoleSuperadmin), a.listReports)

	return nil
}
