// Package session holds the signed-in user's identity snapshot. A snapshot
// is resolved once at login and never mutated; logout drops it as a whole.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
)

// ErrNotFound is returned when a session has expired or was logged out.
var ErrNotFound = errors.New("session not found")

// ResolveRoles merges the primary role and the exeat role list of a login
// result into one set. Unknown names are dropped. Students who hold no staff
// role resolve to {student}.
func ResolveRoles(login *model.LoginResult) workflow.RoleSet {
	set := workflow.NewRoleSet()
	if r, ok := workflow.ParseRole(login.Role); ok {
		set[r] = struct{}{}
	}
	for _, ref := range login.Roles {
		if r, ok := workflow.ParseRole(ref.Name); ok {
			set[r] = struct{}{}
		}
	}
	if len(set) == 0 && login.User.Type == "student" {
		set[workflow.RoleStudent] = struct{}{}
	}
	return set
}

// Snapshot is the session identity used by every permission check.
type Snapshot struct {
	ID        string
	Token     string
	User      model.User
	Roles     workflow.RoleSet
	CreatedAt time.Time
}

// New builds a snapshot from a login result with a fresh session ID.
func New(login *model.LoginResult, now time.Time) *Snapshot {
	return &Snapshot{
		ID:        uuid.New().String(),
		Token:     login.Token,
		User:      login.User,
		Roles:     ResolveRoles(login),
		CreatedAt: now,
	}
}

// PrimaryRole is the role shown in the UI header: the first staff role in
// stable order, else student.
func (s *Snapshot) PrimaryRole() workflow.Role {
	for _, r := range s.Roles.List() {
		if r != workflow.RoleStudent {
			return r
		}
	}
	return workflow.RoleStudent
}

type snapshotJSON struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	Roles     []string   `json:"roles"`
	CreatedAt time.Time  `json:"created_at"`
}

// MarshalJSON encodes the snapshot for the session store.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		ID:        s.ID,
		Token:     s.Token,
		User:      s.User,
		Roles:     s.Roles.Strings(),
		CreatedAt: s.CreatedAt,
	})
}

// UnmarshalJSON decodes a stored snapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	roles := workflow.NewRoleSet()
	for _, name := range raw.Roles {
		if r, ok := workflow.ParseRole(name); ok {
			roles[r] = struct{}{}
		}
	}
	*s = Snapshot{ID: raw.ID, Token: raw.Token, User: raw.User, Roles: roles, CreatedAt: raw.CreatedAt}
	return nil
}

// Store persists snapshots between requests.
type Store interface {
	Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error
	// Load returns ErrNotFound when the session is gone.
	Load(ctx context.Context, id string) (*Snapshot, error)
	// Invalidate removes the session and revokes the token ID in one step.
	Invalidate(ctx context.Context, id, tokenID string, tokenTTL time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
