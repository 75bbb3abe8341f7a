package model

import (
	"errors"
	"strings"
	"time"
)

// Role is a closed enumeration of account roles.  Only the two values
// below exist; registration rejects anything else instead of storing
// arbitrary role strings.
type Role string

const (
	RoleUser  Role = "User"  // default role for registered accounts
	RoleAdmin Role = "Admin" // may curate the public top-rated movie set
)

// ErrUnknownRole is returned by ParseRole for a role string outside the
// closed {User, Admin} set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps a request-supplied role string onto the closed Role set.
// The compare is case-insensitive and an empty string defaults to
// RoleUser.  Unrecognized values are rejected rather than silently kept.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleUser, nil
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	}
	return "", ErrUnknownRole
}

// User represents an application account as stored in the `users` table.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	PasswordHash – bcrypt hashed password.
//	Role         – closed role value (User or Admin).
//	CreatedAt    – timestamp of registration.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
}
