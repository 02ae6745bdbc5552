package core

// NavTarget is a navigation destination tagged with the roles allowed to
// reach it. An empty Allowed set means any authenticated role.
type NavTarget struct {
	Name    string
	Label   string
	Path    string
	Allowed []Role
}

// Allows reports whether role may reach the target.
func (t NavTarget) Allows(role Role) bool {
	if len(t.Allowed) == 0 {
		return true
	}
	for _, r := range t.Allowed {
		if r == role {
			return true
		}
	}
	return false
}

// MenuItem is a navigation entry rendered for the caller. Targets the
// caller's role cannot reach are simply omitted.
type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// MenuItem converts the target to its rendered form.
func (t NavTarget) MenuItem() MenuItem {
	return MenuItem{Label: t.Label, Path: t.Path}
}
