package models

type contextKey string

const UserContextKey contextKey = "user"

type User struct {
	ID       string `json:"id"`
	Login    string `json:"login"`
	Email    string `json:"email"`
	PassHash []byte `json:"pass_hash"`
	IsAdmin  bool   `json:"is_admin"`
}
