package signeddocrepo

import (
	"context"
	"database/sql"
	"errors"
	"esignserver/internal/entities"
	"esignserver/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "signedDocRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateSignedDocument(ctx context.Context, sd *models.SignedDocument) error {
	op := pkg + "CreateSignedDocument"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO signed_documents (id, document_id, signature_id, page, pos_x, pos_y, path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sd.ID, sd.DocumentID, sd.SignatureID, sd.Page, sd.PosX, sd.PosY, sd.Path, sd.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) SignedDocumentByID(ctx context.Context, id string) (*models.SignedDocument, error) {
	op := pkg + "SignedDocumentByID"

	raw := entities.SignedDocument{}

	err := r.db.GetContext(ctx, &raw,
		`SELECT
			sd.id AS id,
			sd.document_id AS document_id,
			sd.signature_id AS signature_id,
			sd.page AS page,
			sd.pos_x AS pos_x,
			sd.pos_y AS pos_y,
			sd.path AS path,
			sd.created_at AS created_at
		FROM signed_documents sd
		WHERE sd.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSignedDocNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return signedFromEntity(&raw), nil
}

func (r *repository) ListByDocument(ctx context.Context, documentID string) ([]*models.SignedDocument, error) {
	op := pkg + "ListByDocument"

	raws := make([]entities.SignedDocument, 0)

	err := r.db.SelectContext(ctx, &raws,
		`SELECT
			sd.id AS id,
			sd.document_id AS document_id,
			sd.signature_id AS signature_id,
			sd.page AS page,
			sd.pos_x AS pos_x,
			sd.pos_y AS pos_y,
			sd.path AS path,
			sd.created_at AS created_at
		FROM signed_documents sd
		WHERE sd.document_id = $1
		ORDER BY sd.created_at DESC`,
		documentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	signed := make([]*models.SignedDocument, 0, len(raws))

	for i := range raws {
		signed = append(signed, signedFromEntity(&raws[i]))
	}

	return signed, nil
}

func (r *repository) Paths(ctx context.Context) ([]string, error) {
	op := pkg + "Paths"

	paths := make([]string, 0)

	err := r.db.SelectContext(ctx, &paths,
		`SELECT sd.path FROM signed_documents sd`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return paths, nil
}

func signedFromEntity(raw *entities.SignedDocument) *models.SignedDocument {
	return &models.SignedDocument{
		ID:          raw.ID,
		DocumentID:  raw.DocumentID,
		SignatureID: raw.SignatureID,
		Page:        raw.Page,
		PosX:        raw.PosX,
		PosY:        raw.PosY,
		Path:        raw.Path,
		CreatedAt:   raw.CreatedAt,
	}
}
