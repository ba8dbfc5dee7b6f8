package session

import (
	"errors"
	"testing"
)

var branches = []string{"תל אביב", "חיפה"}

func TestNewStateStartsUnset(t *testing.T) {
	s := New()
	if s.Role() != RoleUnset || s.SelectedBranch() != "" || s.AdminAuthenticated() {
		t.Fatalf("New() = role %q, branch %q, admin %v", s.Role(), s.SelectedBranch(), s.AdminAuthenticated())
	}
	if s.HasRole() {
		t.Fatalf("HasRole() expected false while unset")
	}
}

func TestSelectBranch(t *testing.T) {
	s := New()
	if err := s.SelectBranch("חיפה", branches); err != nil {
		t.Fatalf("SelectBranch() error = %v", err)
	}
	if s.Role() != RoleBranch || s.SelectedBranch() != "חיפה" {
		t.Fatalf("SelectBranch() = role %q, branch %q", s.Role(), s.SelectedBranch())
	}

	if err := s.SelectBranch("תל אביב", branches); !errors.Is(err, ErrRoleAlreadySet) {
		t.Fatalf("SelectBranch() second call error = %v, want ErrRoleAlreadySet", err)
	}
}

func TestSelectBranchRejectsUnknown(t *testing.T) {
	s := New()
	if err := s.SelectBranch("אילת", branches); !errors.Is(err, ErrUnknownBranch) {
		t.Fatalf("SelectBranch() error = %v, want ErrUnknownBranch", err)
	}
	if s.Role() != RoleUnset {
		t.Fatalf("failed selection must not change role, got %q", s.Role())
	}
}

func TestSelectHeadquartersAndLogout(t *testing.T) {
	s := New()
	if err := s.SelectHeadquarters(); err != nil {
		t.Fatalf("SelectHeadquarters() error = %v", err)
	}
	if s.Role() != RoleHeadquarters {
		t.Fatalf("Role() = %q, want headquarters", s.Role())
	}
	if err := s.SelectHeadquarters(); !errors.Is(err, ErrRoleAlreadySet) {
		t.Fatalf("SelectHeadquarters() second call error = %v", err)
	}

	s.Logout()
	if s.Role() != RoleUnset || s.SelectedBranch() != "" {
		t.Fatalf("Logout() = role %q, branch %q", s.Role(), s.SelectedBranch())
	}
}

func TestLogoutClearsSelectedBranch(t *testing.T) {
	s := New()
	if err := s.SelectBranch("חיפה", branches); err != nil {
		t.Fatalf("SelectBranch() error = %v", err)
	}

	s.Logout()
	if s.SelectedBranch() != "" {
		t.Fatalf("Logout() left selected branch %q", s.SelectedBranch())
	}

	// After logout a new role selection is allowed again.
	if err := s.SelectHeadquarters(); err != nil {
		t.Fatalf("SelectHeadquarters() after logout error = %v", err)
	}
}

func TestAdminFlagIndependentOfRole(t *testing.T) {
	s := New()

	if s.LoginAdmin("wrong", "secret") {
		t.Fatalf("LoginAdmin() accepted a wrong password")
	}
	if s.LoginAdmin("secret", "") {
		t.Fatalf("LoginAdmin() accepted with empty configured password")
	}
	if !s.LoginAdmin("secret", "secret") {
		t.Fatalf("LoginAdmin() rejected the exact password")
	}
	if !s.AdminAuthenticated() {
		t.Fatalf("AdminAuthenticated() expected true")
	}

	// Role logout leaves the admin flag alone, and vice versa.
	if err := s.SelectBranch("חיפה", branches); err != nil {
		t.Fatalf("SelectBranch() error = %v", err)
	}
	s.Logout()
	if !s.AdminAuthenticated() {
		t.Fatalf("role logout cleared the admin flag")
	}

	s.LogoutAdmin()
	if s.AdminAuthenticated() {
		t.Fatalf("LogoutAdmin() left the flag set")
	}
}
