package invitationrepo

import (
	"context"
	"database/sql"
	"esignserver/internal/models"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func invRows(consumed bool, consumedAt interface{}, expiresAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "document_id", "recipient_email", "recipient_name", "token",
		"created_by", "created_at", "expires_at", "consumed", "consumed_at",
	}).AddRow(
		"inv1", "doc1", "alice@example.com", "Alice", "tok",
		"admin1", time.Now().Add(-time.Hour), expiresAt, consumed, consumedAt,
	)
}

func TestRedeem_Success(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)*FROM document_invitations i(.|\n)*FOR UPDATE").
		WithArgs("tok").
		WillReturnRows(invRows(false, nil, now.Add(time.Hour)))
	mock.ExpectExec("UPDATE document_invitations SET consumed = TRUE").
		WithArgs("inv1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inv, err := repo.Redeem(context.Background(), "tok", now)
	assert.NoError(t, err)
	assert.True(t, inv.Consumed)
	assert.NotNil(t, inv.ConsumedAt)
	assert.Equal(t, "doc1", inv.DocumentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_AlreadyUsed(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)*FROM document_invitations i(.|\n)*FOR UPDATE").
		WithArgs("tok").
		WillReturnRows(invRows(true, now.Add(-time.Minute), now.Add(time.Hour)))
	mock.ExpectRollback()

	inv, err := repo.Redeem(context.Background(), "tok", now)
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, models.ErrInvitationUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_Expired(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)*FROM document_invitations i(.|\n)*FOR UPDATE").
		WithArgs("tok").
		WillReturnRows(invRows(false, nil, now.Add(-time.Hour)))
	mock.ExpectRollback()

	inv, err := repo.Redeem(context.Background(), "tok", now)
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, models.ErrInvitationExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)*FROM document_invitations i(.|\n)*FOR UPDATE").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	inv, err := repo.Redeem(context.Background(), "missing", time.Now())
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, models.ErrInvitationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvitation_Success(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	now := time.Now()

	inv := &models.DocumentInvitation{
		ID:             "inv1",
		DocumentID:     "doc1",
		RecipientEmail: "alice@example.com",
		RecipientName:  "Alice",
		Token:          "tok",
		CreatedBy:      "admin1",
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Hour),
	}

	mock.ExpectExec("INSERT INTO document_invitations").
		WithArgs(inv.ID, inv.DocumentID, inv.RecipientEmail, inv.RecipientName, inv.Token, inv.CreatedBy, inv.CreatedAt, inv.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateInvitation(context.Background(), inv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
