package model

import "time"

// Roles assignable to a user account. Operators work the greenhouse floor,
// admins additionally manage accounts.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

type User struct {
	ID             int       `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	Name           *string   `db:"name" json:"name"`
	Role           string    `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
