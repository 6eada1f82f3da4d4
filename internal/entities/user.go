package entities

type User struct {
	ID       string `db:"id"`
	Login    string `db:"login"`
	Email    string `db:"email"`
	PassHash []byte `db:"pass_hash"`
	IsAdmin  bool   `db:"is_admin"`
}
