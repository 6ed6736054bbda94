package models

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"` // don’t expose hash
}
