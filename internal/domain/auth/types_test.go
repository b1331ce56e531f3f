package auth

import "testing"

func TestRole_Meets(t *testing.T) {
	if !RoleAdmin.Meets(RoleBronze) {
		t.Fatalf("admin should meet bronze")
	}
	if !RoleGold.Meets(RoleGold) {
		t.Fatalf("gold should meet gold")
	}
	if RoleBronze.Meets(RoleAdmin) {
		t.Fatalf("bronze must not meet admin")
	}
	if Role("superuser").Meets(RoleBronze) {
		t.Fatalf("unknown role must fail closed")
	}
	if RoleAdmin.Meets(Role("superuser")) {
		t.Fatalf("unknown requirement must fail closed")
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleBronze, RoleGold, RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("expected %q valid", r)
		}
	}
	if Role("").Valid() {
		t.Fatalf("zero role must be invalid")
	}
}

func TestSessionState_Same(t *testing.T) {
	a := SessionState{Phase: PhaseAuthenticated, Identity: &Identity{ID: "u1"}, Generation: 1}
	b := SessionState{Phase: PhaseAuthenticated, Identity: &Identity{ID: "u1"}, Generation: 9}
	if !a.Same(b) {
		t.Fatalf("generation must not affect sameness")
	}
	c := SessionState{Phase: PhaseAuthenticated, Identity: &Identity{ID: "u2"}}
	if a.Same(c) {
		t.Fatalf("different identities are different states")
	}
	if a.Same(SessionState{Phase: PhaseAnonymous}) {
		t.Fatalf("different phases are different states")
	}
	if !(SessionState{Phase: PhaseAnonymous}).Same(SessionState{Phase: PhaseAnonymous}) {
		t.Fatalf("anonymous equals anonymous")
	}
}
