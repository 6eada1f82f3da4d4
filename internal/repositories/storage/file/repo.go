package filerepo

import (
	"errors"
	"esignserver/internal/models"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const pkg = "fileRepo/"

// repository keeps all stored files under a single root. Records reference
// files by root-relative paths such as "documents/<id>.pdf".
type repository struct {
	root string
}

func NewRepository(root string) *repository {
	return &repository{root: root}
}

func (r *repository) Save(rel string, reader io.Reader) error {
	op := pkg + "Save"

	abs, err := r.Abs(rel)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		_ = os.Remove(abs)
		return fmt.Errorf("%s: %w", op, err)
	}

	return f.Sync()
}

func (r *repository) Open(rel string) (io.ReadCloser, error) {
	op := pkg + "Open"

	abs, err := r.Abs(rel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

func (r *repository) Remove(rel string) error {
	op := pkg + "Remove"

	abs, err := r.Abs(rel)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Remove(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// List returns the root-relative paths of every regular file under dir.
func (r *repository) List(dir string) ([]string, error) {
	op := pkg + "List"

	abs, err := r.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rels := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.Type().IsRegular() {
			rels = append(rels, filepath.ToSlash(filepath.Join(dir, e.Name())))
		}
	}

	return rels, nil
}

// Abs resolves a root-relative path to an absolute one, rejecting any path
// that would escape the storage root.
func (r *repository) Abs(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", models.ErrInvalidParams
	}

	return filepath.Join(r.root, clean), nil
}
