package engine

import (
	"esignserver/internal/models"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func probePDF(path string) (*Info, error) {
	op := pkg + "probePDF"

	count, err := pdfapi.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProcessing)
	}

	dims, err := pdfapi.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProcessing)
	}

	pages := make([]PageDim, 0, len(dims))
	for _, d := range dims {
		pages = append(pages, PageDim{Width: d.Width, Height: d.Height})
	}

	return &Info{
		Format:    models.FormatPDF,
		PageCount: count,
		Pages:     pages,
	}, nil
}

// Caption stamped under every signature image.
const signatureLabel = "Signature"

// renderPDF stamps each signature image, plus a caption line below it, onto
// its target page as an overlay. Pages may differ in size, so the target
// page's own dimensions drive the coordinate mapping. Pages without a
// placement keep their content streams untouched.
func renderPDF(inPath string, placements []SignaturePlacement, outPath string) error {
	op := pkg + "renderPDF"

	info, err := probePDF(inPath)
	if err != nil {
		return err
	}

	if err := copyFile(inPath, outPath); err != nil {
		return fmt.Errorf("%s: %w", op, models.ErrProcessing)
	}

	for _, sp := range placements {
		if sp.Page > len(info.Pages) {
			return fmt.Errorf("%s: %w", op, models.ErrPageOutOfRange)
		}

		page := info.Pages[sp.Page-1]
		x, y := mapToPDFPage(sp.X, sp.Y, page)

		scale, err := signatureScale(sp.ImagePath)
		if err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}

		// pos:bl anchors at the page's lower-left corner; Dx/Dy then shift
		// the image to the absolute target position in points. op:1 keeps the
		// image fully opaque.
		desc := fmt.Sprintf("scale:%.4f abs, pos:bl, rot:0, op:1", scale)

		wm, err := pdfcpu.ParseImageWatermarkDetails(sp.ImagePath, desc, true, types.POINTS)
		if err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}

		wm.Dx = x
		wm.Dy = y

		pages := []string{fmt.Sprintf("%d", sp.Page)}

		if err := pdfapi.AddWatermarksFile(outPath, "", pages, wm, model.NewDefaultConfiguration()); err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}

		label, err := pdfcpu.ParseTextWatermarkDetails(signatureLabel, "font:Helvetica, points:12, scale:1 abs, pos:bl, rot:0, op:1", true, types.POINTS)
		if err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}

		// Caption sits centered under the signature box, 15pt below its
		// bottom edge.
		label.Dx = x + sigWidthPt/2 - 20
		label.Dy = y - 15

		if err := pdfapi.AddWatermarksFile(outPath, "", pages, label, model.NewDefaultConfiguration()); err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}
	}

	return nil
}

// signatureScale derives the watermark scale factor that renders the
// signature image sigWidthPt points wide, from the image's pixel width.
func signatureScale(sigPath string) (float64, error) {
	f, err := os.Open(sigPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, err
	}

	if cfg.Width <= 0 {
		return 0, fmt.Errorf("invalid signature image width: %d", cfg.Width)
	}

	return sigWidthPt / float64(cfg.Width), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Sync()
}
