package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageGeometry(t *testing.T) {
	t.Run("A4 portrait", func(t *testing.T) {
		geom, err := NewPageGeometry(PaperSizeA4, OrientationPortrait, 10)
		require.NoError(t, err)
		assert.InDelta(t, 210.0, geom.PageW, 0.001)
		assert.InDelta(t, 297.0, geom.PageH, 0.001)
		assert.InDelta(t, 190.0, geom.ContentW, 0.001)
		assert.InDelta(t, 277.0, geom.ContentH, 0.001)
	})

	t.Run("A4 landscape swaps dimensions", func(t *testing.T) {
		geom, err := NewPageGeometry(PaperSizeA4, OrientationLandscape, 10)
		require.NoError(t, err)
		assert.InDelta(t, 297.0, geom.PageW, 0.001)
		assert.InDelta(t, 210.0, geom.PageH, 0.001)
		assert.InDelta(t, 277.0, geom.ContentW, 0.001)
		assert.InDelta(t, 190.0, geom.ContentH, 0.001)
	})

	t.Run("letter", func(t *testing.T) {
		geom, err := NewPageGeometry(PaperSizeLetter, OrientationPortrait, 12.7)
		require.NoError(t, err)
		assert.InDelta(t, 215.9, geom.PageW, 0.001)
		assert.InDelta(t, 279.4, geom.PageH, 0.001)
		assert.InDelta(t, 190.5, geom.ContentW, 0.001)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		tests := []struct {
			name        string
			paper       PaperSize
			orientation Orientation
			margin      float64
		}{
			{"unknown paper", PaperSize("A5"), OrientationPortrait, 10},
			{"unknown orientation", PaperSizeA4, Orientation("UPSIDE_DOWN"), 10},
			{"negative margin", PaperSizeA4, OrientationPortrait, -1},
			{"margin swallows page", PaperSizeA4, OrientationPortrait, 105},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewPageGeometry(tt.paper, tt.orientation, tt.margin)
				assert.Error(t, err)
			})
		}
	})
}

func TestParseMargin(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"10mm", 10, false},
		{"1.5cm", 15, false},
		{"0.5in", 12.7, false},
		{"8", 8, false},
		{" 10MM ", 10, false},
		{"0mm", 0, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5mm", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMargin(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 0.001)
		})
	}
}
