package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapToPDFPage(t *testing.T) {
	t.Parallel()

	page := PageDim{Width: 612, Height: 792}

	tests := []struct {
		name  string
		xNorm float64
		yNorm float64
		wantX float64
		wantY float64
	}{
		{"center", 0.5, 0.5, 306, 346},
		{"top left clamps to margins", 0, 0, 25, 717},
		{"bottom right clamps to margins", 1, 1, 437, 25},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			x, y := mapToPDFPage(tt.xNorm, tt.yNorm, page)
			assert.InDelta(t, tt.wantX, x, 0.001)
			assert.InDelta(t, tt.wantY, y, 0.001)
		})
	}
}

func TestMapToPDFPage_PageSmallerThanBox(t *testing.T) {
	t.Parallel()

	// Box plus margins does not fit; position pins to the lower bound.
	x, y := mapToPDFPage(0.5, 0.5, PageDim{Width: 100, Height: 80})
	assert.Equal(t, 25.0, x)
	assert.Equal(t, 25.0, y)
}

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5.0, clamp(5, 0, 10))
	assert.Equal(t, 0.0, clamp(-1, 0, 10))
	assert.Equal(t, 10.0, clamp(11, 0, 10))
	assert.Equal(t, 3.0, clamp(7, 3, 1))
}
