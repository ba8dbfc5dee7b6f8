package session

import (
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	RoleUnset        Role = "unset"
	RoleBranch       Role = "branch"
	RoleHeadquarters Role = "headquarters"
)

var (
	ErrRoleAlreadySet = errors.New("role already selected, logout first")
	ErrUnknownBranch  = errors.New("branch is not in the configured set")
)

// State holds the two independent session flags: the role (with its selected
// branch) and the admin-authenticated bool. One State per session, never
// shared across sessions. Zero value is not usable, construct with New.
type State struct {
	role           Role
	selectedBranch string
	adminAuthed    bool
}

func New() *State {
	return &State{role: RoleUnset}
}

func (s *State) Role() Role             { return s.role }
func (s *State) SelectedBranch() string { return s.selectedBranch }
func (s *State) AdminAuthenticated() bool {
	return s.adminAuthed
}

// HasRole reports whether downstream surfaces (submit, report, insight) are
// reachable. This is a hard precondition, not a hint.
func (s *State) HasRole() bool {
	return s.role != RoleUnset
}

// SelectBranch transitions unset -> branch(b). Any other starting role is
// rejected; b must be one of the configured branches.
func (s *State) SelectBranch(branch string, allowed []string) error {
	if s.role != RoleUnset {
		return ErrRoleAlreadySet
	}

	trimmed := strings.TrimSpace(branch)
	found := false
	for _, candidate := range allowed {
		if strings.TrimSpace(candidate) == trimmed {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrUnknownBranch, trimmed)
	}

	s.role = RoleBranch
	s.selectedBranch = trimmed
	return nil
}

// SelectHeadquarters transitions unset -> headquarters.
func (s *State) SelectHeadquarters() error {
	if s.role != RoleUnset {
		return ErrRoleAlreadySet
	}

	s.role = RoleHeadquarters
	return nil
}

// Logout returns the role to unset and clears the selected branch. The admin
// flag is independent and stays untouched.
func (s *State) Logout() {
	s.role = RoleUnset
	s.selectedBranch = ""
}

// LoginAdmin flips the admin flag only on an exact password match.
func (s *State) LoginAdmin(password string, configured string) bool {
	if configured == "" || password != configured {
		return false
	}
	s.adminAuthed = true
	return true
}

func (s *State) LogoutAdmin() {
	s.adminAuthed = false
}
