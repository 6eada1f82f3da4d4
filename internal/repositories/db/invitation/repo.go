package invitationrepo

import (
	"context"
	"database/sql"
	"errors"
	"esignserver/internal/entities"
	"esignserver/internal/models"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const pkg = "invitationRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateInvitation(ctx context.Context, inv *models.DocumentInvitation) error {
	op := pkg + "CreateInvitation"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO document_invitations (id, document_id, recipient_email, recipient_name, token, created_by, created_at, expires_at, consumed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)`,
		inv.ID, inv.DocumentID, inv.RecipientEmail, inv.RecipientName, inv.Token, inv.CreatedBy, inv.CreatedAt, inv.ExpiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) ListByDocument(ctx context.Context, documentID string) ([]*models.DocumentInvitation, error) {
	op := pkg + "ListByDocument"

	raws := make([]entities.DocumentInvitation, 0)

	err := r.db.SelectContext(ctx, &raws,
		`SELECT
			i.id AS id,
			i.document_id AS document_id,
			i.recipient_email AS recipient_email,
			i.recipient_name AS recipient_name,
			i.token AS token,
			i.created_by AS created_by,
			i.created_at AS created_at,
			i.expires_at AS expires_at,
			i.consumed AS consumed,
			i.consumed_at AS consumed_at
		FROM document_invitations i
		WHERE i.document_id = $1
		ORDER BY i.created_at DESC`,
		documentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	invs := make([]*models.DocumentInvitation, 0, len(raws))

	for i := range raws {
		invs = append(invs, invFromEntity(&raws[i]))
	}

	return invs, nil
}

// Redeem consumes the invitation matching the token. The validity check and
// the consumed-flag flip run inside one transaction with the row locked, so
// two concurrent redemption attempts cannot both succeed.
func (r *repository) Redeem(ctx context.Context, token string, now time.Time) (*models.DocumentInvitation, error) {
	op := pkg + "Redeem"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	raw := entities.DocumentInvitation{}

	err = tx.GetContext(ctx, &raw,
		`SELECT
			i.id AS id,
			i.document_id AS document_id,
			i.recipient_email AS recipient_email,
			i.recipient_name AS recipient_name,
			i.token AS token,
			i.created_by AS created_by,
			i.created_at AS created_at,
			i.expires_at AS expires_at,
			i.consumed AS consumed,
			i.consumed_at AS consumed_at
		FROM document_invitations i
		WHERE i.token = $1
		FOR UPDATE`,
		token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvitationNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if raw.Consumed {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvitationUsed)
	}

	if now.After(raw.ExpiresAt) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvitationExpired)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE document_invitations SET consumed = TRUE, consumed_at = $2 WHERE id = $1`,
		raw.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw.Consumed = true
	raw.ConsumedAt = sql.NullTime{Time: now, Valid: true}

	return invFromEntity(&raw), nil
}

func invFromEntity(raw *entities.DocumentInvitation) *models.DocumentInvitation {
	inv := &models.DocumentInvitation{
		ID:             raw.ID,
		DocumentID:     raw.DocumentID,
		RecipientEmail: raw.RecipientEmail,
		RecipientName:  raw.RecipientName,
		Token:          raw.Token,
		CreatedBy:      raw.CreatedBy,
		CreatedAt:      raw.CreatedAt,
		ExpiresAt:      raw.ExpiresAt,
		Consumed:       raw.Consumed,
	}

	if raw.ConsumedAt.Valid {
		t := raw.ConsumedAt.Time
		inv.ConsumedAt = &t
	}

	return inv
}
