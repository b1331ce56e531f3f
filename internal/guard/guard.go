package guard

// Package guard decides whether a protected view or action may proceed,
// combining session state and resolved role. It is a pure decision
// function: navigation binding and rendering are the caller's concern.

import (
	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
)

// RequirementKind discriminates what a route demands.
type RequirementKind int

const (
	// RequirePublic routes are open to everyone.
	RequirePublic RequirementKind = iota
	// RequireAuthenticated routes demand any signed-in user.
	RequireAuthenticated
	// RequireMinRole routes demand a signed-in user at or above a tier.
	RequireMinRole
)

// Requirement describes what a route or action demands.
type Requirement struct {
	Kind RequirementKind
	Role domainauth.Role // set when Kind is RequireMinRole
}

// Public returns the requirement for open routes.
func Public() Requirement { return Requirement{Kind: RequirePublic} }

// Authenticated returns the requirement for routes demanding any sign-in.
func Authenticated() Requirement { return Requirement{Kind: RequireAuthenticated} }

// MinRole returns the requirement for routes demanding a tier at or above
// role.
func MinRole(role domainauth.Role) Requirement {
	return Requirement{Kind: RequireMinRole, Role: role}
}

// DecisionKind is the outcome of an access check.
type DecisionKind int

const (
	// Allow renders the route.
	Allow DecisionKind = iota
	// Pending shows a spinner: the session or role is still resolving.
	// Never allow, never redirect while resolving, to avoid flicker and
	// false redirects during initial load.
	Pending
	// RedirectToSignIn sends the user to sign-in, carrying ReturnPath.
	RedirectToSignIn
	// RedirectToForbidden sends the user to the forbidden view: they are
	// someone, but not enough.
	RedirectToForbidden
)

func (k DecisionKind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Pending:
		return "pending"
	case RedirectToSignIn:
		return "redirect-to-sign-in"
	case RedirectToForbidden:
		return "redirect-to-forbidden"
	default:
		return "invalid"
	}
}

// Decision is the ephemeral outcome of Decide. It is recomputed whenever
// session state or role changes, never persisted.
type Decision struct {
	Kind       DecisionKind
	ReturnPath string // set for RedirectToSignIn
}

// RoleStatus is the resolver's view of the current identity's role.
// Resolved is false while the role is unknown (in flight or failed).
type RoleStatus struct {
	Role     domainauth.Role
	Resolved bool
}

// Decide gates a route with the given requirement against the current
// session state and role status. path is the route being attempted, echoed
// back on RedirectToSignIn so sign-in can return the user there.
//
// The authentication check strictly precedes the role check: an anonymous
// user hitting an admin-only route is sent to sign-in, not forbidden.
func Decide(state domainauth.SessionState, role RoleStatus, req Requirement, path string) Decision {
	if req.Kind == RequirePublic {
		return Decision{Kind: Allow}
	}

	switch state.Phase {
	case domainauth.PhaseUnknown:
		return Decision{Kind: Pending}
	case domainauth.PhaseAnonymous:
		return Decision{Kind: RedirectToSignIn, ReturnPath: path}
	case domainauth.PhaseAuthenticated:
		// fall through to the role check
	}

	if req.Kind == RequireAuthenticated {
		return Decision{Kind: Allow}
	}

	if !role.Resolved {
		return Decision{Kind: Pending}
	}
	if !role.Role.Meets(req.Role) {
		return Decision{Kind: RedirectToForbidden}
	}
	return Decision{Kind: Allow}
}
