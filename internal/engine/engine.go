package engine

import (
	"context"
	"esignserver/internal/models"
	"fmt"
	"log/slog"
	"os"
)

const pkg = "engine/"

// Signature box rendered onto a page, in points. Matches the preview box the
// front end shows while the user drags the signature.
const (
	sigWidthPt  = 150.0
	sigHeightPt = 50.0
	marginPt    = 25.0
)

// PageDim holds a single page's dimensions in points.
type PageDim struct {
	Width  float64
	Height float64
}

// Info describes a parsed source document.
type Info struct {
	Format    models.DocumentFormat
	PageCount int
	Pages     []PageDim
}

// Placement positions a signature on a page. X and Y are fractions in [0,1]
// of the page width/height, measured from the page's top-left corner.
type Placement struct {
	Page int
	X    float64
	Y    float64
}

// SignaturePlacement pairs a signature image file with its placement. One
// render call applies any number of these onto the same output artifact.
type SignaturePlacement struct {
	ImagePath string
	Placement
}

type Engine struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Engine {
	return &Engine{log: log}
}

// Probe inspects a source document and reports its format, page count and
// per-page dimensions. Corrupt files yield models.ErrProcessing.
func (e *Engine) Probe(path string) (*Info, error) {
	op := pkg + "Probe"

	format, err := models.FormatFromFilename(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch format {
	case models.FormatPDF:
		return probePDF(path)
	case models.FormatDOCX:
		return probeDOCX(path)
	default:
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnsupportedFormat)
	}
}

// Render composites every signature image onto its placement's page and
// writes the combined result to outPath. The output appears only on success:
// rendering goes through a temp file that is promoted at the end, so a failed
// render leaves no partial artifact behind.
func (e *Engine) Render(ctx context.Context, doc *models.Document, placements []SignaturePlacement, outPath string) error {
	op := pkg + "Render"

	log := e.log.With(slog.String("op", op))

	if len(placements) == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	for _, sp := range placements {
		if err := validatePlacement(sp.Placement, doc.PageCount); err != nil {
			log.Warn("invalid placement",
				slog.Int("page", sp.Page),
				slog.Float64("x", sp.X),
				slog.Float64("y", sp.Y))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmpPath := outPath + ".tmp"

	var err error

	switch doc.Format {
	case models.FormatPDF:
		err = renderPDF(doc.Path, placements, tmpPath)
	case models.FormatDOCX:
		err = renderDOCX(doc.Path, placements, tmpPath)
	default:
		return fmt.Errorf("%s: %w", op, models.ErrUnsupportedFormat)
	}

	if err != nil {
		_ = os.Remove(tmpPath)
		log.Error("failed to render signed document", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%s: %w", op, models.ErrProcessing)
	}

	log.Debug("signed document rendered",
		slog.String("out", outPath),
		slog.Int("count", len(placements)))

	return nil
}

func validatePlacement(pl Placement, pageCount int) error {
	if pl.X < 0 || pl.X > 1 || pl.Y < 0 || pl.Y > 1 {
		return models.ErrInvalidParams
	}
	if pl.Page < 1 || pl.Page > pageCount {
		return models.ErrPageOutOfRange
	}
	return nil
}
