package model

import "time"

// Role is the authorization level attached to a user account.
type Role string

const (
	// RoleUser is the default role assigned on signup.
	RoleUser Role = "user"
	// RoleAdmin unlocks catalog management endpoints.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// CartItem is a single product reference with a quantity, embedded in the
// user record.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// User is the full account record as persisted by the credential store.
// PasswordHash is never serialized to clients.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	CartItems    []CartItem `json:"cartItems"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// PublicUser is the client-visible projection of a user. It is the only
// user shape that crosses the HTTP boundary.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Public returns the client-visible projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
