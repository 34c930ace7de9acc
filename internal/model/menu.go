package model

// MenuItem is read-only reference data listed by GET /menu.
type MenuItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
