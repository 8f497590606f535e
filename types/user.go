package types

import "time"

// User roles. New accounts default to RoleUser; a user with any other
// role is rejected at login.
const (
	RoleAdmin = "admin"
	RoleUser  = "pengguna"
)

// User represents an account in the system.
// It contains identity, profile, session, and audit metadata.
type User struct {
	// ID is the opaque unique identifier of the user, generated on creation.
	ID string `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. Uniqueness is enforced by a
	// lookup before insert, not by the store.
	Email string `json:"email" db:"email"`

	// Role indicates the user's authorization level
	// within the system ("admin" or "pengguna").
	Role string `json:"role" db:"role"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Gender is an optional profile attribute.
	Gender *string `json:"gender,omitempty" db:"gender"`

	// Age is an optional profile attribute.
	Age *int `json:"age,omitempty" db:"age"`

	// ProfilePictureURL is the public URL of the currently stored
	// profile picture, if any.
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty" db:"profile_picture_url"`

	// Token is the user's current session token, or nil when logged out.
	Token *string `json:"-" db:"token"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ValidRole reports whether role is one of the recognized user roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// ProfileUpdate describes a partial update to a user's profile.
// Nil fields are left untouched by the store.
type ProfileUpdate struct {
	Name              *string
	Gender            *string
	Age               *int
	ProfilePictureURL *string
}

// Empty reports whether the update would change no profile fields.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Gender == nil && u.Age == nil && u.ProfilePictureURL == nil
}
