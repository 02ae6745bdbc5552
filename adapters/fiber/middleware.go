package fiber

import (
	"github.com/gofiber/fiber/v3"

	"caseport"
)

const (
	sessionLocalKey = "caseport_session"
	authCookieName  = "auth_token"
)

// requireAuth resolves the session token and stores the session in the
// request context for downstream handlers. Requests without a valid,
// unexpired token are redirected to the login page.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":    caseport.ErrMissingAuthHeader.Error(),
			"redirect": "/login",
		})
	}

	session, err := a.cp.Sessions.Resolve(token)
	if err != nil {
		// Bad signature, malformed, or expired - uniformly "not
		// authenticated" to the caller.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":    caseport.ErrSessionInvalid.Error(),
			"redirect": "/login",
		})
	}

	c.Locals(sessionLocalKey, session)
	return c.Next()
}

// requireRole is the API-side gate: it re-runs the same role check that
// shapes the menu and rejects callers outside the allowed set.
func (a *Adapter) requireRole(allowed ...caseport.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		session := sessionFromCtx(c)
		if session == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    caseport.ErrSessionInvalid.Error(),
				"redirect": "/login",
			})
		}

		if err := a.cp.Gate.Require(c.Context(), session, allowed...); err != nil {
			return handleError(c, err)
		}
		return c.Next()
	}
}

// sessionFromCtx returns the session stored by requireAuth, or nil.
func sessionFromCtx(c fiber.Ctx) *caseport.Session {
	session, _ := c.Locals(sessionLocalKey).(*caseport.Session)
	return session
}

// extractToken extracts the session token from the request.
// Checks Authorization header (Bearer token) first, then falls back to cookie.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	return c.Cookies(authCookieName)
}
