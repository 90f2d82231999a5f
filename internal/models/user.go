package models

// User is an account on the marketplace backend.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Tel    string `json:"tel"`
	Avatar string `json:"avatar"`
}
