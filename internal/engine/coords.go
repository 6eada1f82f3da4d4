package engine

// mapToPDFPage converts normalized top-left coordinates to the absolute
// position of the signature box's lower-left corner in PDF space (origin at
// the page's bottom-left). The result is clamped so the whole box stays
// inside the page margins.
func mapToPDFPage(xNorm, yNorm float64, page PageDim) (float64, float64) {
	x := xNorm * page.Width
	y := page.Height - yNorm*page.Height - sigHeightPt

	x = clamp(x, marginPt, page.Width-sigWidthPt-marginPt)
	y = clamp(y, marginPt, page.Height-sigHeightPt-marginPt)

	return x, y
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		// Page smaller than the signature box plus margins; pin to the
		// lower bound rather than inverting the range.
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
