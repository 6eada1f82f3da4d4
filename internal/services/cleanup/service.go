package cleanupservice

import (
	"context"
	"esignserver/internal/models"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const pkg = "cleanupService/"

// Files younger than this are never touched. Uploads write the file before
// the database record, so a scan racing an upload must leave fresh files be.
const minAge = time.Hour

// Service removes stored files that no database record references anymore.
type Service struct {
	log      *slog.Logger
	storage  FileStorage
	docPaths PathLister
	sigPaths PathLister
	outPaths PathLister
}

func New(
	log *slog.Logger,
	storage FileStorage,
	docPaths PathLister,
	sigPaths PathLister,
	outPaths PathLister,
) *Service {
	return &Service{
		log:      log,
		storage:  storage,
		docPaths: docPaths,
		sigPaths: sigPaths,
		outPaths: outPaths,
	}
}

// Run scans every storage directory once and deletes orphaned files. It
// returns how many files were removed.
func (s *Service) Run(ctx context.Context) (int, error) {
	op := pkg + "Run"

	log := s.log.With(slog.String("op", op))

	log.Debug("starting orphaned file scan")

	dirs := []struct {
		dir   string
		repos PathLister
	}{
		{"documents", s.docPaths},
		{"signatures", s.sigPaths},
		{"signed", s.outPaths},
	}

	removed := 0

	for _, d := range dirs {
		n, err := s.sweep(ctx, d.dir, d.repos)
		if err != nil {
			return removed, fmt.Errorf("%s: %w", op, err)
		}
		removed += n
	}

	log.Info("orphaned file scan finished", slog.Int("removed", removed))

	return removed, nil
}

func (s *Service) sweep(ctx context.Context, dir string, repo PathLister) (int, error) {
	op := pkg + "sweep"

	log := s.log.With(slog.String("op", op), slog.String("dir", dir))

	referenced, err := repo.Paths(ctx)
	if err != nil {
		log.Error("failed to list referenced paths", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	keep := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		keep[p] = struct{}{}
	}

	files, err := s.storage.List(dir)
	if err != nil {
		log.Error("failed to list stored files", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	removed := 0
	now := time.Now()

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		if _, ok := keep[rel]; ok {
			continue
		}

		if young, err := s.youngerThan(rel, now, minAge); err != nil || young {
			continue
		}

		if err := s.storage.Remove(rel); err != nil {
			log.Warn("failed to remove orphaned file", slog.String("path", rel), slog.String("error", err.Error()))
			continue
		}

		log.Info("removed orphaned file", slog.String("path", rel))
		removed++
	}

	return removed, nil
}

func (s *Service) youngerThan(rel string, now time.Time, age time.Duration) (bool, error) {
	abs, err := s.storage.Abs(rel)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return false, err
	}

	return now.Sub(info.ModTime()) < age, nil
}
