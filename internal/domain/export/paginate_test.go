package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func a4Portrait(t *testing.T) PageGeometry {
	t.Helper()
	geom, err := NewPageGeometry(PaperSizeA4, OrientationPortrait, 10)
	require.NoError(t, err)
	return geom
}

func TestRenderedHeight(t *testing.T) {
	geom := a4Portrait(t)

	// 380px wide snapshot maps onto 190mm: 2px per mm
	assert.InDelta(t, 100.0, RenderedHeight(380, 200, geom), 0.001)
	assert.InDelta(t, 692.5, RenderedHeight(380, 1385, geom), 0.001)
}

func TestPaginate(t *testing.T) {
	geom := a4Portrait(t)

	t.Run("short snapshot is a single page at offset zero", func(t *testing.T) {
		placements, err := Paginate(380, 200, geom)
		require.NoError(t, err)
		require.Len(t, placements, 1)
		assert.Equal(t, 0, placements[0].Page)
		assert.InDelta(t, 0.0, placements[0].OffsetMM, 0.001)
	})

	t.Run("snapshot exactly one content box tall", func(t *testing.T) {
		// 277mm content height at 2px per mm
		placements, err := Paginate(380, 554, geom)
		require.NoError(t, err)
		assert.Len(t, placements, 1)
	})

	t.Run("tall snapshot slices without gap or overlap", func(t *testing.T) {
		// 692.5mm rendered height = 2.5 content boxes = 3 pages
		placements, err := Paginate(380, 1385, geom)
		require.NoError(t, err)
		require.Len(t, placements, 3)

		for i, p := range placements {
			assert.Equal(t, i, p.Page)
			assert.InDelta(t, -float64(i)*geom.ContentH, p.OffsetMM, 0.001)
		}
	})

	t.Run("one pixel over a boundary adds a page", func(t *testing.T) {
		placements, err := Paginate(380, 555, geom)
		require.NoError(t, err)
		assert.Len(t, placements, 2)
	})

	t.Run("invalid dimensions", func(t *testing.T) {
		_, err := Paginate(0, 100, geom)
		assert.Error(t, err)
		_, err = Paginate(380, -1, geom)
		assert.Error(t, err)
	})
}

func TestPageCount(t *testing.T) {
	geom := a4Portrait(t)

	assert.Equal(t, 1, PageCount(380, 1, geom))
	assert.Equal(t, 1, PageCount(380, 554, geom))
	assert.Equal(t, 2, PageCount(380, 555, geom))
	assert.Equal(t, 3, PageCount(380, 1385, geom))
}
