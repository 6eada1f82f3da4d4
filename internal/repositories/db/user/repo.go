package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"esignserver/internal/entities"
	"esignserver/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "userRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users(id, login, email, pass_hash, is_admin) VALUES($1, $2, $3, $4, $5)`,
		user.ID, user.Login, user.Email, user.PassHash, user.IsAdmin)

	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok {
			if pgErr.Code == "23505" {
				return &models.UniqueConstraintError{
					Constraint: pgErr.Constraint,
					Err:        models.ErrUNIQUEConstraintFailed,
				}
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) UserByID(ctx context.Context, id string) (*models.User, error) {
	op := pkg + "UserByID"

	rawUser := entities.User{}

	err := r.db.GetContext(ctx, &rawUser,
		`SELECT
			u.id AS id,
			u.login AS login,
			u.email AS email,
			u.pass_hash AS pass_hash,
			u.is_admin AS is_admin
		FROM users u
		WHERE u.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return userFromEntity(&rawUser), nil
}

func (r *repository) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	op := pkg + "UserByLogin"

	rawUser := entities.User{}

	err := r.db.GetContext(ctx, &rawUser,
		`SELECT
			u.id AS id,
			u.login AS login,
			u.email AS email,
			u.pass_hash AS pass_hash,
			u.is_admin AS is_admin
		FROM users u
		WHERE u.login = $1`, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return userFromEntity(&rawUser), nil
}

// AdminEmails returns the email addresses of every admin user, for the
// notification dispatcher.
func (r *repository) AdminEmails(ctx context.Context) ([]string, error) {
	op := pkg + "AdminEmails"

	emails := make([]string, 0)

	err := r.db.SelectContext(ctx, &emails,
		`SELECT u.email FROM users u WHERE u.is_admin = TRUE AND u.email <> ''`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return emails, nil
}

func userFromEntity(raw *entities.User) *models.User {
	return &models.User{
		ID:       raw.ID,
		Login:    raw.Login,
		Email:    raw.Email,
		PassHash: raw.PassHash,
		IsAdmin:  raw.IsAdmin,
	}
}
