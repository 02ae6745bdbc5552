package services

import (
	"context"

	"caseport/core"
)

// AccessGate decides whether a session may reach a navigation target.
//
// The same decision backs two call sites: menu composition (deny means
// the item is omitted) and the hard server-side check on privileged API
// operations. The menu alone is never a security boundary.
type AccessGate struct {
	roles   *RoleResolver
	targets *TargetRegistry
}

func NewAccessGate(roles *RoleResolver, targets *TargetRegistry) *AccessGate {
	return &AccessGate{roles: roles, targets: targets}
}

// CanReach walks the three gate states: no valid session redirects to
// login; a resolved role inside the target's allowed set passes; any
// other resolved role is denied. The role is re-resolved on every call
// rather than remembered between navigations.
func (g *AccessGate) CanReach(ctx context.Context, session *core.Session, target core.NavTarget) (core.Decision, error) {
	if session == nil || session.Subject.ID == "" {
		return core.DecisionRedirectToLogin, nil
	}

	role, err := g.roles.Resolve(ctx, session.Subject.ID)
	if err != nil {
		// Authenticated but role unknown: fail closed and surface the
		// lookup failure.
		return core.DecisionDeny, err
	}

	if target.Allows(role) {
		return core.DecisionAllow, nil
	}
	return core.DecisionDeny, nil
}

// Require is the API-side enforcement point: it re-runs the role check
// and returns nil only when the resolved role is in the allowed set.
// An empty allowed set requires authentication only.
func (g *AccessGate) Require(ctx context.Context, session *core.Session, allowed ...core.Role) error {
	if session == nil || session.Subject.ID == "" {
		return core.ErrSessionInvalid
	}
	if len(allowed) == 0 {
		return nil
	}

	role, err := g.roles.Resolve(ctx, session.Subject.ID)
	if err != nil {
		return err
	}
	for _, r := range allowed {
		if r == role {
			return nil
		}
	}
	return core.ErrForbidden
}

// MenuFor builds the caller's menu by filtering the registered targets
// against a single role resolution. Unreachable targets are omitted
// rather than marked.
func (g *AccessGate) MenuFor(ctx context.Context, session *core.Session) ([]core.MenuItem, error) {
	if session == nil || session.Subject.ID == "" {
		return nil, core.ErrSessionInvalid
	}

	role, err := g.roles.Resolve(ctx, session.Subject.ID)
	if err != nil {
		return nil, err
	}

	targets := g.targets.Targets()
	menu := make([]core.MenuItem, 0, len(targets))
	for _, t := range targets {
		if t.Allows(role) {
			menu = append(menu, t.MenuItem())
		}
	}
	return menu, nil
}
