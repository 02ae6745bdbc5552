package services

import (
	"context"
	"errors"
	"testing"

	"caseport/core"
)

// Requirement: role resolution defaults to end_user for absent or
// unrecognized records and honors every valid stored role.
func TestRoleResolver_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		rawRole string // empty means no role record
		want    core.Role
	}{
		{name: "absent record defaults to end_user", rawRole: "", want: core.RoleEndUser},
		{name: "garbage value defaults to end_user", rawRole: "wizard", want: core.RoleEndUser},
		{name: "end_user", rawRole: "end_user", want: core.RoleEndUser},
		{name: "company_user", rawRole: "company_user", want: core.RoleCompanyUser},
		{name: "superadmin", rawRole: "superadmin", want: core.RoleSuperadmin},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			provider := NewFakeProvider()
			provider.AddUser(core.Identity{ID: "user123", Email: "a@example.com"}, "secret123", test.rawRole)
			resolver := NewRoleResolver(provider, nil)

			// Act
			role, err := resolver.Resolve(context.Background(), "user123")

			// Assert
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if role != test.want {
				t.Errorf("Resolve() = %q, want %q", role, test.want)
			}
		})
	}
}

// Requirement: an empty identity id resolves to end_user without a
// provider call.
func TestRoleResolver_Resolve_EmptyID(t *testing.T) {
	// Arrange
	provider := NewFakeProvider()
	resolver := NewRoleResolver(provider, nil)

	// Act
	role, err := resolver.Resolve(context.Background(), "")

	// Assert
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if role != core.RoleEndUser {
		t.Errorf("Resolve() = %q, want end_user", role)
	}
	if provider.RoleCalls() != 0 {
		t.Errorf("provider consulted %d times, want 0", provider.RoleCalls())
	}
}

// Requirement: a provider failure returns ErrRoleLookupFailed; it never
// silently defaults the role.
func TestRoleResolver_Resolve_ProviderFailure(t *testing.T) {
	// Arrange
	provider := NewFakeProvider()
	provider.SetRoleError(errors.New("connection refused"))
	resolver := NewRoleResolver(provider, nil)

	// Act
	role, err := resolver.Resolve(context.Background(), "user123")

	// Assert
	if !errors.Is(err, core.ErrRoleLookupFailed) {
		t.Fatalf("Resolve() error = %v, want ErrRoleLookupFailed", err)
	}
	if role != "" {
		t.Errorf("Resolve() = %q, want empty role on failure", role)
	}
}

// Requirement: with caching disabled every resolution hits the
// provider, so an administrator role change is visible immediately.
func TestRoleResolver_Resolve_NoCacheSeesChanges(t *testing.T) {
	// Arrange
	provider := NewFakeProvider()
	provider.AddUser(core.Identity{ID: "user123", Email: "a@example.com"}, "secret123", "end_user")
	resolver := NewRoleResolver(provider, nil)
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "user123")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if first != core.RoleEndUser {
		t.Fatalf("Resolve() = %q, want end_user", first)
	}

	// Act: role changed directly in the provider, no re-login.
	provider.SetRawRole("user123", "company_user")
	second, err := resolver.Resolve(ctx, "user123")

	// Assert
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if second != core.RoleCompanyUser {
		t.Errorf("Resolve() = %q, want company_user after change", second)
	}
	if provider.RoleCalls() != 2 {
		t.Errorf("provider consulted %d times, want 2", provider.RoleCalls())
	}
}

// Requirement: with a cache attached, repeat resolutions are served
// from the cache and the provider is consulted once.
func TestRoleResolver_Resolve_CacheHit(t *testing.T) {
	// Arrange
	provider := NewFakeProvider()
	provider.AddUser(core.Identity{ID: "user123", Email: "a@example.com"}, "secret123", "superadmin")
	resolver := NewRoleResolver(provider, NewFakeRoleCache())
	ctx := context.Background()

	// Act
	for range 3 {
		role, err := resolver.Resolve(ctx, "user123")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if role != core.RoleSuperadmin {
			t.Fatalf("Resolve() = %q, want superadmin", role)
		}
	}

	// Assert
	if provider.RoleCalls() != 1 {
		t.Errorf("provider consulted %d times, want 1", provider.RoleCalls())
	}
}
