package model

import "time"

// User represents an account record as stored in the `users` table.
// The password is kept only as a bcrypt hash; PublicUser is the shape
// exposed through the API and never carries credential material.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique login identifier.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account may authenticate.
//  IsAdmin      – whether the account holds administrator rights.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	IsAdmin      bool      // users.is_admin
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// PublicUser is the external representation of a User. ProfileID is nil
// when the user has not created a profile yet.
type PublicUser struct {
	ID        uint64  `json:"id"`
	Email     string  `json:"email"`
	IsActive  bool    `json:"is_active"`
	IsAdmin   bool    `json:"is_admin"`
	ProfileID *uint64 `json:"profile_id,omitempty"`
}

// Public converts a User into its API representation.
func (u User) Public(profileID *uint64) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
		ProfileID: profileID,
	}
}

// AuthToken models a row in the `auth_tokens` table. The token value is
// an opaque random string handed to the client as a bearer credential.
// A unique constraint on UserID guarantees at most one live token per
// user; issuing is an atomic get-or-create so repeated logins return the
// same value.
type AuthToken struct {
	ID        uint64    // auth_tokens.id
	UserID    uint64    // auth_tokens.user_id (unique)
	Token     string    // auth_tokens.token (unique)
	CreatedAt time.Time // auth_tokens.created_at
}

// Profile is the optional 1:1 companion record of a user, created on the
// owner's first write. Mutable only by its owner or an administrator.
type Profile struct {
	ID         uint64    `json:"id"`          // profiles.id
	UserID     uint64    `json:"user_id"`     // profiles.user_id (unique)
	FullName   string    `json:"full_name"`   // profiles.full_name
	Phone      string    `json:"phone"`       // profiles.phone
	Address    string    `json:"address"`     // profiles.address
	City       string    `json:"city"`        // profiles.city
	Country    string    `json:"country"`     // profiles.country
	PostalCode string    `json:"postal_code"` // profiles.postal_code
	CreatedAt  time.Time `json:"created_at"`  // profiles.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // profiles.updated_at
}
