// Package authstate materializes the signed-in user and role for a request and
// keeps it current as session change notifications arrive.
package authstate

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/juntape/junta/internal/domain"
)

// State is the session seen by guards and page handlers
type State struct {
	UserID  string
	Email   string
	Role    domain.Role
	Loading bool
	Err     error
}

// Anonymous is the state of a visitor without a session
func Anonymous() State {
	return State{}
}

// Pending is the state before the initial session fetch resolves
func Pending() State {
	return State{Loading: true}
}

// HasUser reports whether a user is signed in
func (s State) HasUser() bool {
	return s.UserID != ""
}

// FromIdentity builds a State, validating the stored role.
// An unknown role leaves Role empty and sets Err.
func FromIdentity(userID, email, role string) State {
	r, err := domain.ParseRole(role)
	if err != nil {
		err = fmt.Errorf("%w: %q", err, role)
	}
	return State{UserID: userID, Email: email, Role: r, Err: err}
}

type stateJSON struct {
	UserID  string      `json:"user_id,omitempty"`
	Email   string      `json:"email,omitempty"`
	Role    domain.Role `json:"role,omitempty"`
	Loading bool        `json:"loading"`
	Error   string      `json:"error,omitempty"`
}

// MarshalJSON renders Err as a message
func (s State) MarshalJSON() ([]byte, error) {
	v := stateJSON{UserID: s.UserID, Email: s.Email, Role: s.Role, Loading: s.Loading}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	return json.Marshal(v)
}

// ChangeKind names a session change notification
type ChangeKind string

const (
	SignedIn       ChangeKind = "signed_in"
	SignedOut      ChangeKind = "signed_out"
	TokenRefreshed ChangeKind = "token_refreshed"
)

// ChangeEvent is emitted by the auth service on every session change
type ChangeEvent struct {
	Kind   ChangeKind `json:"kind"`
	UserID string     `json:"user_id"`
	Email  string     `json:"email,omitempty"`
	Role   string     `json:"role,omitempty"`
	At     time.Time  `json:"at"`
}

// Apply recomputes the state from a change event
func Apply(_ State, ev ChangeEvent) State {
	if ev.Kind == SignedOut {
		return Anonymous()
	}
	return FromIdentity(ev.UserID, ev.Email, ev.Role)
}
