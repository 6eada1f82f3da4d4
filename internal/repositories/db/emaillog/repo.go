package emaillogrepo

import (
	"context"
	"esignserver/internal/entities"
	"esignserver/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "emailLogRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) RecordDelivery(ctx context.Context, rec *models.EmailLog) error {
	op := pkg + "RecordDelivery"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO email_logs (id, kind, recipient, subject, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Kind, rec.Recipient, rec.Subject, rec.Status, rec.Error, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListFailed reports deliveries that never went out, so an admin can retry
// or notice the gap.
func (r *repository) ListFailed(ctx context.Context, limit int) ([]*models.EmailLog, error) {
	op := pkg + "ListFailed"

	raws := make([]entities.EmailLog, 0)

	err := r.db.SelectContext(ctx, &raws,
		`SELECT
			e.id AS id,
			e.kind AS kind,
			e.recipient AS recipient,
			e.subject AS subject,
			e.status AS status,
			e.error AS error,
			e.created_at AS created_at
		FROM email_logs e
		WHERE e.status = $1
		ORDER BY e.created_at DESC
		LIMIT $2`,
		models.EmailStatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logs := make([]*models.EmailLog, 0, len(raws))

	for i := range raws {
		raw := raws[i]
		logs = append(logs, &models.EmailLog{
			ID:        raw.ID,
			Kind:      raw.Kind,
			Recipient: raw.Recipient,
			Subject:   raw.Subject,
			Status:    raw.Status,
			Error:     raw.Error,
			CreatedAt: raw.CreatedAt,
		})
	}

	return logs, nil
}
