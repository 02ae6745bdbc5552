package core

// Decision is the outcome of an access check. The zero value is Deny so
// a forgotten assignment never grants access.
type Decision int

const (
	DecisionDeny Decision = iota
	DecisionAllow
	DecisionRedirectToLogin
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectToLogin:
		return "redirect_to_login"
	default:
		return "deny"
	}
}
