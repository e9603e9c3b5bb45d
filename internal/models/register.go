package models

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// example: john_doe
	Username string `json:"username"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`

	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Declared genre interest, used for recommendations
	// required: true
	// example: history
	Genre string `json:"genre"`
}
