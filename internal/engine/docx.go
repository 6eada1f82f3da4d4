package engine

import (
	"archive/zip"
	"bytes"
	"esignserver/internal/models"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const (
	docxDocumentPath = "word/document.xml"
	docxRelsPath     = "word/_rels/document.xml.rels"
	docxTypesPath    = "[Content_Types].xml"

	// DOCX has no fixed pagination before layout; pages are estimated the
	// same way the preview does, by accumulated paragraph text length.
	docxCharsPerPage = 1000

	emuPerPoint = 12700
	twipsPerPt  = 20
)

// Letter size in points, used when the document carries no w:pgSz.
var defaultDocxPage = PageDim{Width: 612, Height: 792}

var (
	docxTextRE = regexp.MustCompile(`(?s)<w:t[^>]*>(.*?)</w:t>`)
	docxPgSzRE = regexp.MustCompile(`<w:pgSz[^>]*/?>`)
	docxAttrW  = regexp.MustCompile(`w:w="(\d+)"`)
	docxAttrH  = regexp.MustCompile(`w:h="(\d+)"`)
	docxRelID  = regexp.MustCompile(`Id="rId(\d+)"`)
)

type docxParagraph struct {
	start   int
	textLen int
}

func probeDOCX(path string) (*Info, error) {
	op := pkg + "probeDOCX"

	doc, err := readDocxDocument(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProcessing)
	}

	page := docxPageSize(doc)
	count := len(docxPageStarts(doc))

	pages := make([]PageDim, count)
	for i := range pages {
		pages[i] = page
	}

	return &Info{
		Format:    models.FormatDOCX,
		PageCount: count,
		Pages:     pages,
	}, nil
}

// renderDOCX injects each signature image into the document as a floating
// anchored drawing positioned relative to its target page, without touching
// the existing paragraph and table flow. Every zip entry other than the
// document body, relationships and content types is copied over raw, so the
// original content stays byte-identical.
func renderDOCX(inPath string, placements []SignaturePlacement, outPath string) error {
	op := pkg + "renderDOCX"

	zr, err := zip.OpenReader(inPath)
	if err != nil {
		return fmt.Errorf("%s: %w", op, models.ErrProcessing)
	}
	defer zr.Close()

	files := make(map[string][]byte)
	for _, name := range []string{docxDocumentPath, docxRelsPath, docxTypesPath} {
		data, err := readZipEntry(&zr.Reader, name)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", op, name, models.ErrProcessing)
		}
		files[name] = data
	}

	taken := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		taken[f.Name] = true
	}

	pageSize := docxPageSize(files[docxDocumentPath])
	relID := nextRelID(files[docxRelsPath])

	type mediaEntry struct {
		name string
		data []byte
	}
	media := make([]mediaEntry, 0, len(placements))

	// Anchor paragraphs carry no text, so splicing one never shifts the page
	// estimate for the placements that follow.
	for _, sp := range placements {
		sigData, err := os.ReadFile(sp.ImagePath)
		if err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}

		ext, contentType, err := imageKind(sigData)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		mediaName := freeMediaName(taken, ext)
		taken[mediaName] = true
		media = append(media, mediaEntry{name: mediaName, data: sigData})

		anchor := buildSignatureAnchor(relID, pageSize, sp.Placement)

		newDoc, err := spliceAnchor(files[docxDocumentPath], anchor, sp.Page)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		files[docxDocumentPath] = newDoc
		files[docxRelsPath] = addImageRelationship(files[docxRelsPath], relID, strings.TrimPrefix(mediaName, "word/"))
		files[docxTypesPath] = ensureImageContentType(files[docxTypesPath], ext, contentType)

		relID++
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%s: %w", op, models.ErrProcessing)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	for _, f := range zr.File {
		if data, ok := files[f.Name]; ok {
			w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
			if err != nil {
				return fmt.Errorf("%s: %w", op, models.ErrProcessing)
			}
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("%s: %w", op, models.ErrProcessing)
			}
			continue
		}

		// Untouched entries keep their exact compressed bytes.
		raw, err := f.OpenRaw()
		if err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}
		header := f.FileHeader
		w, err := zw.CreateRaw(&header)
		if err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}
		if _, err := io.Copy(w, raw); err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}
	}

	for _, m := range media {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: m.name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}
		if _, err := w.Write(m.data); err != nil {
			return fmt.Errorf("%s: %w", op, models.ErrProcessing)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, models.ErrProcessing)
	}

	return out.Sync()
}

func readDocxDocument(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return readZipEntry(&zr.Reader, docxDocumentPath)
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()

			var buf bytes.Buffer
			if _, err := io.Copy(&buf, rc); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}
	}

	return nil, fmt.Errorf("zip entry %s not found", name)
}

// docxParagraphs locates every top-level paragraph and its visible text
// length inside document.xml.
func docxParagraphs(doc []byte) []docxParagraph {
	paras := make([]docxParagraph, 0)

	for i := 0; i+4 < len(doc); i++ {
		if doc[i] != '<' || !bytes.HasPrefix(doc[i:], []byte("<w:p")) {
			continue
		}
		// Exclude <w:pPr>, <w:pgSz> and friends.
		next := doc[i+4]
		if next != '>' && next != ' ' && next != '/' {
			continue
		}

		end := bytes.Index(doc[i:], []byte("</w:p>"))
		if end < 0 {
			end = len(doc) - i
		}

		textLen := 0
		for _, m := range docxTextRE.FindAllSubmatch(doc[i:i+end], -1) {
			textLen += len(strings.TrimSpace(string(m[1])))
		}

		paras = append(paras, docxParagraph{start: i, textLen: textLen})
		i += end
	}

	return paras
}

// docxPageStarts estimates page boundaries by accumulated text length and
// returns the byte offset of the first paragraph of each page. A document
// always has at least one page.
func docxPageStarts(doc []byte) []int {
	paras := docxParagraphs(doc)

	starts := []int{0}
	if len(paras) > 0 {
		starts[0] = paras[0].start
	}

	current := 0
	onPage := 0

	for _, p := range paras {
		if p.textLen == 0 {
			continue
		}
		if current+p.textLen > docxCharsPerPage && onPage > 0 {
			starts = append(starts, p.start)
			current = p.textLen
			onPage = 1
			continue
		}
		current += p.textLen
		onPage++
	}

	return starts
}

func docxPageSize(doc []byte) PageDim {
	tag := docxPgSzRE.Find(doc)
	if tag == nil {
		return defaultDocxPage
	}

	page := defaultDocxPage

	if m := docxAttrW.FindSubmatch(tag); m != nil {
		if w, err := strconv.Atoi(string(m[1])); err == nil && w > 0 {
			page.Width = float64(w) / twipsPerPt
		}
	}
	if m := docxAttrH.FindSubmatch(tag); m != nil {
		if h, err := strconv.Atoi(string(m[1])); err == nil && h > 0 {
			page.Height = float64(h) / twipsPerPt
		}
	}

	return page
}

// spliceAnchor inserts the anchor paragraph right before the first paragraph
// of the target page, or before the body close when the document has no
// paragraphs at all.
func spliceAnchor(doc, anchor []byte, page int) ([]byte, error) {
	starts := docxPageStarts(doc)

	if page < 1 || page > len(starts) {
		return nil, models.ErrPageOutOfRange
	}

	at := starts[page-1]
	if at == 0 {
		if i := bytes.Index(doc, []byte("</w:body>")); i >= 0 {
			at = i
		} else {
			return nil, models.ErrProcessing
		}
	}

	out := make([]byte, 0, len(doc)+len(anchor))
	out = append(out, doc[:at]...)
	out = append(out, anchor...)
	out = append(out, doc[at:]...)

	return out, nil
}

// buildSignatureAnchor produces a paragraph holding a floating drawing with
// wrapNone, so existing content never reflows around it. Offsets are
// page-relative in EMU.
func buildSignatureAnchor(relID int, page PageDim, pl Placement) []byte {
	cx := int64(sigWidthPt * emuPerPoint)
	cy := int64(sigHeightPt * emuPerPoint)

	pageW := page.Width * emuPerPoint
	pageH := page.Height * emuPerPoint
	margin := marginPt * emuPerPoint

	posX := int64(clamp(pl.X*pageW, margin, pageW-float64(cx)-margin))
	posY := int64(clamp(pl.Y*pageH, margin, pageH-float64(cy)-margin))

	docPrID := 1000 + relID

	return []byte(fmt.Sprintf(
		`<w:p><w:r><w:drawing>`+
			`<wp:anchor xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" distT="0" distB="0" distL="0" distR="0" simplePos="0" relativeHeight="251658240" behindDoc="0" locked="0" layoutInCell="1" allowOverlap="1">`+
			`<wp:simplePos x="0" y="0"/>`+
			`<wp:positionH relativeFrom="page"><wp:posOffset>%d</wp:posOffset></wp:positionH>`+
			`<wp:positionV relativeFrom="page"><wp:posOffset>%d</wp:posOffset></wp:positionV>`+
			`<wp:extent cx="%d" cy="%d"/>`+
			`<wp:effectExtent l="0" t="0" r="0" b="0"/>`+
			`<wp:wrapNone/>`+
			`<wp:docPr id="%d" name="Signature %d"/>`+
			`<wp:cNvGraphicFramePr/>`+
			`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
			`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
			`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
			`<pic:nvPicPr><pic:cNvPr id="%d" name="Signature %d"/><pic:cNvPicPr/></pic:nvPicPr>`+
			`<pic:blipFill><a:blip xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
			`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
			`</pic:pic></a:graphicData></a:graphic></wp:anchor></w:drawing></w:r></w:p>`,
		posX, posY, cx, cy, docPrID, relID, docPrID, relID, relID, cx, cy))
}

func nextRelID(rels []byte) int {
	max := 0
	for _, m := range docxRelID.FindAllSubmatch(rels, -1) {
		if id, err := strconv.Atoi(string(m[1])); err == nil && id > max {
			max = id
		}
	}
	return max + 1
}

func addImageRelationship(rels []byte, relID int, target string) []byte {
	rel := fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="%s"/>`, relID, target)

	if i := bytes.Index(rels, []byte("</Relationships>")); i >= 0 {
		out := make([]byte, 0, len(rels)+len(rel))
		out = append(out, rels[:i]...)
		out = append(out, rel...)
		out = append(out, rels[i:]...)
		return out
	}

	return rels
}

func ensureImageContentType(types []byte, ext, contentType string) []byte {
	if bytes.Contains(types, []byte(fmt.Sprintf(`Extension="%s"`, ext))) {
		return types
	}

	def := fmt.Sprintf(`<Default Extension="%s" ContentType="%s"/>`, ext, contentType)

	if i := bytes.Index(types, []byte("</Types>")); i >= 0 {
		out := make([]byte, 0, len(types)+len(def))
		out = append(out, types[:i]...)
		out = append(out, def...)
		out = append(out, types[i:]...)
		return out
	}

	return types
}

func freeMediaName(taken map[string]bool, ext string) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("word/media/signature%d.%s", i, ext)
		if !taken[name] {
			return name
		}
	}
}

func imageKind(data []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "png", "image/png", nil
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return "jpeg", "image/jpeg", nil
	default:
		return "", "", models.ErrProcessing
	}
}
