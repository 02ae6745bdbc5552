package services

import (
	"context"
	"errors"
	"fmt"

	"caseport/core"
)

// RoleResolver determines the caller's role from the provider's record
// store.
//
// Resolution is per-request by default (cache == nil): the latency cost
// buys immediate visibility of role changes without re-login. An
// optional TTL cache bounds staleness to its TTL.
type RoleResolver struct {
	records core.RoleStore
	cache   core.RoleCache // optional, nil disables caching
}

func NewRoleResolver(records core.RoleStore, cache core.RoleCache) *RoleResolver {
	return &RoleResolver{records: records, cache: cache}
}

// Resolve returns the stored role for an identity.
//
// An absent record or an unrecognized stored value resolves to
// RoleEndUser. A genuine provider failure returns ErrRoleLookupFailed
// and never falls back to a default or a stale cached value - silently
// mis-privileging a user on a transient error is the one failure mode
// this resolver refuses.
func (r *RoleResolver) Resolve(ctx context.Context, identityID string) (core.Role, error) {
	if identityID == "" {
		return core.RoleEndUser, nil
	}

	if r.cache != nil {
		if role, err := r.cache.Get(identityID); err == nil {
			return role, nil
		}
	}

	stored, err := r.records.GetRole(ctx, identityID)
	if err != nil {
		if errors.Is(err, core.ErrRoleNotFound) {
			return core.RoleEndUser, nil
		}
		return "", fmt.Errorf("%w: %v", core.ErrRoleLookupFailed, err)
	}

	role := core.ParseRole(string(stored))

	if r.cache != nil {
		// Caching failures don't fail the request
		_ = r.cache.Set(identityID, role)
	}

	return role, nil
}
