package model

import "time"

// User mirrors the 'users' table.  Roles are ADMIN (manages the space
// catalog and confirms reservations) and MEMBER (books spaces and pays
// charges).
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role (ADMIN | MEMBER)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
