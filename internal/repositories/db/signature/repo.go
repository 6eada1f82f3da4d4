package signaturerepo

import (
	"context"
	"database/sql"
	"errors"
	"esignserver/internal/entities"
	"esignserver/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "signatureRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateSignature(ctx context.Context, sig *models.Signature) error {
	op := pkg + "CreateSignature"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO signatures (id, owner_id, kind, path, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sig.ID, sig.OwnerID, sig.Kind, sig.Path, sig.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) SignatureByID(ctx context.Context, id string) (*models.Signature, error) {
	op := pkg + "SignatureByID"

	raw := entities.Signature{}

	err := r.db.GetContext(ctx, &raw,
		`SELECT
			s.id AS id,
			s.owner_id AS owner_id,
			s.kind AS kind,
			s.path AS path,
			s.created_at AS created_at
		FROM signatures s
		WHERE s.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSignatureNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sigFromEntity(&raw), nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Signature, error) {
	op := pkg + "ListByOwner"

	raws := make([]entities.Signature, 0)

	err := r.db.SelectContext(ctx, &raws,
		`SELECT
			s.id AS id,
			s.owner_id AS owner_id,
			s.kind AS kind,
			s.path AS path,
			s.created_at AS created_at
		FROM signatures s
		WHERE s.owner_id = $1
		ORDER BY s.created_at DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sigs := make([]*models.Signature, 0, len(raws))

	for i := range raws {
		sigs = append(sigs, sigFromEntity(&raws[i]))
	}

	return sigs, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM signatures WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) Paths(ctx context.Context) ([]string, error) {
	op := pkg + "Paths"

	paths := make([]string, 0)

	err := r.db.SelectContext(ctx, &paths,
		`SELECT s.path FROM signatures s`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return paths, nil
}

func sigFromEntity(raw *entities.Signature) *models.Signature {
	return &models.Signature{
		ID:        raw.ID,
		OwnerID:   raw.OwnerID,
		Kind:      raw.Kind,
		Path:      raw.Path,
		CreatedAt: raw.CreatedAt,
	}
}
