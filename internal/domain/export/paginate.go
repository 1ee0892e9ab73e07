package export

import (
	"math"

	"github.com/shopfront/exporter/internal/domain/shared"
)

// Placement positions the full rendered snapshot on one output page.
// The snapshot is scaled uniformly so its width fills the content box; each
// page then draws the same full image shifted up by OffsetMM so that the
// page's content box reveals a different vertical slice. The off-page
// remainder is discarded by page-level clipping in the assembler.
type Placement struct {
	Page     int     // zero-based page index
	OffsetMM float64 // vertical offset of the image top relative to the content box top; 0 or negative
}

// RenderedHeight returns the height in mm the snapshot occupies when scaled
// to the content width of the given geometry.
func RenderedHeight(snapshotW, snapshotH int, geom PageGeometry) float64 {
	return float64(snapshotH) * geom.ContentW / float64(snapshotW)
}

// PageCount returns the number of pages required to print the snapshot.
func PageCount(snapshotW, snapshotH int, geom PageGeometry) int {
	pages := int(math.Ceil(RenderedHeight(snapshotW, snapshotH, geom) / geom.ContentH))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Paginate slices a single raster snapshot into an ordered sequence of page
// placements. Invariant: the slices, stacked in page order, reconstruct the
// continuous image with no gap and no overlap beyond rounding error; a
// snapshot no taller than one content box yields exactly one page at offset 0.
func Paginate(snapshotW, snapshotH int, geom PageGeometry) ([]Placement, error) {
	if snapshotW <= 0 || snapshotH <= 0 {
		return nil, shared.NewDomainError("INVALID_SNAPSHOT",
			"Snapshot must have positive dimensions")
	}

	pages := PageCount(snapshotW, snapshotH, geom)
	placements := make([]Placement, pages)
	consumed := 0.0
	for i := 0; i < pages; i++ {
		placements[i] = Placement{Page: i, OffsetMM: -consumed}
		consumed += geom.ContentH
	}
	return placements, nil
}
