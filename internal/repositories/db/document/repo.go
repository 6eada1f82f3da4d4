package documentrepo

import (
	"context"
	"database/sql"
	"errors"
	"esignserver/internal/entities"
	"esignserver/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "documentRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateDocument(ctx context.Context, doc *models.Document) error {
	op := pkg + "CreateDocument"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, owner_id, title, file_name, format, path, page_count, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doc.ID, doc.OwnerID, doc.Title, doc.FileName, string(doc.Format), doc.Path, doc.PageCount, doc.Status, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	rawDoc := entities.Document{}

	err := r.db.GetContext(ctx, &rawDoc,
		`SELECT
			d.id AS id,
			d.owner_id AS owner_id,
			d.title AS title,
			d.file_name AS file_name,
			d.format AS format,
			d.path AS path,
			d.page_count AS page_count,
			d.status AS status,
			d.created_at AS created_at
		FROM documents d
		WHERE d.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docFromEntity(&rawDoc), nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error) {
	op := pkg + "ListByOwner"

	rawDocs := make([]entities.Document, 0)

	err := r.db.SelectContext(ctx, &rawDocs,
		`SELECT
			d.id AS id,
			d.owner_id AS owner_id,
			d.title AS title,
			d.file_name AS file_name,
			d.format AS format,
			d.path AS path,
			d.page_count AS page_count,
			d.status AS status,
			d.created_at AS created_at
		FROM documents d
		WHERE d.owner_id = $1
		ORDER BY d.created_at DESC`,
		ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs := make([]*models.Document, 0, len(rawDocs))

	for i := range rawDocs {
		docs = append(docs, docFromEntity(&rawDocs[i]))
	}

	return docs, nil
}

func (r *repository) SetStatus(ctx context.Context, id string, status string) error {
	op := pkg + "SetStatus"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = $2 WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Paths returns the storage paths of every stored document, used by the
// orphaned-file cleanup pass.
func (r *repository) Paths(ctx context.Context) ([]string, error) {
	op := pkg + "Paths"

	paths := make([]string, 0)

	err := r.db.SelectContext(ctx, &paths,
		`SELECT d.path FROM documents d`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return paths, nil
}

func docFromEntity(raw *entities.Document) *models.Document {
	return &models.Document{
		ID:        raw.ID,
		OwnerID:   raw.OwnerID,
		Title:     raw.Title,
		FileName:  raw.FileName,
		Format:    models.DocumentFormat(raw.Format),
		Path:      raw.Path,
		PageCount: raw.PageCount,
		Status:    raw.Status,
		CreatedAt: raw.CreatedAt,
	}
}
