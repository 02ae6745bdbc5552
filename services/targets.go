package services

import (
	"fmt"

	"caseport/core"
)

// BaseTargets returns the portal's navigation targets in menu order.
//
// The base items are reachable by any authenticated role; Team and
// Reports require company_user or higher; the administration views are
// superadmin only.
func BaseTargets() []core.NavTarget {
	return []core.NavTarget{
		{
			Name:  "home",
			Label: "Home",
			Path:  "/dashboard",
		},
		{
			Name:  "documents",
			Label: "Documents",
			Path:  "/dashboard/documents",
		},
		{
			Name:  "upload",
			Label: "Upload",
			Path:  "/upload",
		},
		{
			Name:    "team",
			Label:   "Team",
			Path:    "/dashboard/team",
			Allowed: []core.Role{core.RoleCompanyUser, core.RoleSuperadmin},
		},
		{
			Name:    "reports",
			Label:   "Reports",
			Path:    "/dashboard/reports",
			Allowed: []core.Role{core.RoleCompanyUser, core.RoleSuperadmin},
		},
		{
			Name:    "companies",
			Label:   "Companies",
			Path:    "/dashboard/companies",
			Allowed: []core.Role{core.RoleSuperadmin},
		},
		{
			Name:    "users",
			Label:   "Users",
			Path:    "/dashboard/users",
			Allowed: []core.Role{core.RoleSuperadmin},
		},
		{
			Name:    "settings",
			Label:   "Settings",
			Path:    "/dashboard/settings",
			Allowed: []core.Role{core.RoleSuperadmin},
		},
	}
}

// TargetRegistry manages navigation targets and detects duplicate
// registrations. Registration order is preserved because it is also the
// menu order.
//
// It starts with the base portal targets and supports registration of
// additional plugin targets with automatic conflict detection.
type TargetRegistry struct {
	byName map[string]*core.NavTarget
	order  []*core.NavTarget
}

// NewTargetRegistry creates a registry with all base targets
// pre-registered.
func NewTargetRegistry() *TargetRegistry {
	reg := &TargetRegistry{
		byName: make(map[string]*core.NavTarget),
	}

	base := BaseTargets()
	for i := range base {
		_ = reg.register(&base[i])
	}

	return reg
}

// register adds a single target with conflict detection.
func (r *TargetRegistry) register(t *core.NavTarget) error {
	if _, exists := r.byName[t.Name]; exists {
		return fmt.Errorf("target conflict: %q already registered", t.Name)
	}

	r.byName[t.Name] = t
	r.order = append(r.order, t)
	return nil
}

// RegisterExtra registers additional targets. If any target conflicts
// with an existing one, or the batch contains duplicates, nothing from
// the batch is registered.
func (r *TargetRegistry) RegisterExtra(targets []core.NavTarget) error {
	seen := make(map[string]bool, len(targets))
	for i := range targets {
		name := targets[i].Name
		if _, exists := r.byName[name]; exists {
			return fmt.Errorf("target conflict: %q already registered", name)
		}
		if seen[name] {
			return fmt.Errorf("batch contains duplicate target: %q", name)
		}
		seen[name] = true
	}

	for i := range targets {
		t := targets[i]
		r.byName[t.Name] = &t
		r.order = append(r.order, &t)
	}

	return nil
}

// Lookup returns the target registered under name.
func (r *TargetRegistry) Lookup(name string) (core.NavTarget, bool) {
	t, ok := r.byName[name]
	if !ok {
		return core.NavTarget{}, false
	}
	return *t, true
}

// Targets returns all registered targets in registration order.
func (r *TargetRegistry) Targets() []core.NavTarget {
	result := make([]core.NavTarget, 0, len(r.order))
	for _, t := range r.order {
		result = append(result, *t)
	}
	return result
}
