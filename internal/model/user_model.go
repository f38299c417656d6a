package model

import "time"

// User is a registered account. Guest checkouts never create one of these;
// a guest order is owned by its email + order number instead.
type User struct {
	UserID    int64      `json:"userid"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstname"`
	LastName  string     `json:"lastname"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
