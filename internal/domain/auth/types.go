package auth

// Package auth contains domain-level types for identity, roles, and session
// state. It is pure and free of framework/adapter concerns.

// Role represents a membership tier controlling feature and route access.
// Keep string form to match the backend wire format.
// Valid values are defined as constants below; the zero value means
// "no role known".
type Role string

const (
	RoleBronze Role = "bronze_user"
	RoleGold   Role = "gold_user"
	RoleAdmin  Role = "admin"
)

// roleRank orders tiers: bronze < gold < admin.
var roleRank = map[Role]int{
	RoleBronze: 0,
	RoleGold:   1,
	RoleAdmin:  2,
}

// Valid reports whether r is one of the defined tiers.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Meets reports whether r satisfies the required tier. Unknown values on
// either side never satisfy anything, so an unexpected wire string fails
// closed.
func (r Role) Meets(required Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	want, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= want
}

// Identity represents the authenticated principal, independent of its
// membership tier. ID is the provider's stable identifier; Email is the
// key the backend addresses users by.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Phase is the discriminant of the session state union.
type Phase int

const (
	// PhaseUnknown is the initial state, before the first session
	// resolution has completed.
	PhaseUnknown Phase = iota
	// PhaseAnonymous means no user is signed in.
	PhaseAnonymous
	// PhaseAuthenticated means a user is signed in and Identity is set.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionState is the client-side knowledge of whether, and as whom, the
// user is signed in. Identity is non-nil exactly when Phase is
// PhaseAuthenticated. Generation increases on every transition and retires
// state derived from earlier generations (credentials, pending fetches).
type SessionState struct {
	Phase      Phase
	Identity   *Identity
	Generation uint64
}

// Same reports whether two states are observably identical, ignoring the
// generation counter. Subscribers are never told about a transition into
// the same observable state twice in a row.
func (s SessionState) Same(o SessionState) bool {
	if s.Phase != o.Phase {
		return false
	}
	if s.Identity == nil || o.Identity == nil {
		return s.Identity == o.Identity
	}
	return *s.Identity == *o.Identity
}

// IsAuthenticated reports whether a user is signed in.
func (s SessionState) IsAuthenticated() bool { return s.Phase == PhaseAuthenticated }
