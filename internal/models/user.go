package models

import "time"

// UserDB represents a user record in the database.
// PasswordHash holds the bcrypt hash; plaintext secrets are never stored.
type UserDB struct {
	UserID       int64     `db:"user_id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Genre        Genre     `db:"genre"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UserResponse is the wire representation of a user. It never carries
// the secret hash.
// swagger:model UserResponse
type UserResponse struct {
	// User ID
	// example: 1
	ID int64 `json:"id"`

	// Username
	// example: john_doe
	Username string `json:"username"`

	// Email
	// example: john@example.com
	Email string `json:"email"`

	// Declared genre interest
	// example: history
	Genre Genre `json:"genre"`

	// Role
	// example: user
	Role Role `json:"role"`
}

// NewUserResponse maps a database row to its wire representation.
func NewUserResponse(u *UserDB) UserResponse {
	return UserResponse{
		ID:       u.UserID,
		Username: u.Username,
		Email:    u.Email,
		Genre:    u.Genre,
		Role:     u.Role,
	}
}
