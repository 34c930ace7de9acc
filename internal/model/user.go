package model

// User is a parent registered through the WhatsApp flow, keyed by phone.
type User struct {
	ID         int64    `json:"id,omitempty"` // set by the managed backend only
	Phone      string   `json:"phone"`
	ParentName string   `json:"parent_name"`
	ChildName  string   `json:"child_name"`
	Wishlist   []string `json:"wishlist"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

// UserInput carries the fields a save-user call may change.
type UserInput struct {
	Phone      string
	ParentName string
	ChildName  string
	Wishlist   []string
}

// SaveUserRequest is the body of POST /save-user. Pointers let the handler
// tell a missing field from an empty one.
type SaveUserRequest struct {
	User       *string  `json:"user"`
	ParentName *string  `json:"parent_name"`
	ChildName  *string  `json:"child_name"`
	Wishlist   []string `json:"wishlist"`
}

// CheckUserRequest is the body of POST /check-or-create-user.
type CheckUserRequest struct {
	Phone *string `json:"phone"`
}
