// Package models holds the identity entities shared by repositories,
// services and handlers.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a user, role or permission.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an identifier produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type Permission struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizePermissionName lower-cases and trims a permission name.
func NormalizePermissionName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type Role struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Status        Status    `json:"status"`
	PermissionIDs []string  `json:"permission_ids,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RoleRef is the {_id, name} projection returned to clients.
type RoleRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func (r *Role) Ref() RoleRef {
	return RoleRef{ID: r.ID, Name: r.Name}
}

type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	RoleIDs   []string  `json:"role_ids"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
