package user

import "context"

const pkg = "userHandler/"

type UserAdder interface {
	Register(ctx context.Context, login string, email string, password string, token string, isAdmin bool) (string, error)
}
