package raster

import (
	"github.com/udisondev/huntatlas/internal/model"
)

// Index maps world tiles to regions. It is built once by BuildIndex and is
// read-only afterwards, so concurrent lookups are safe.
//
// The transform is a bijection between pixels and world (x, y), so the index
// is stored as a dense grid over the raster; unclassified cells hold zero.
type Index struct {
	palette   *Palette
	transform Transform
	width     int
	height    int
	cells     []uint16
	count     int
}

func newIndex(p *Palette, t Transform, width, height int) *Index {
	return &Index{
		palette:   p,
		transform: t,
		width:     width,
		height:    height,
		cells:     make([]uint16, width*height),
	}
}

// Lookup returns the region owning pos. Floor is ignored.
func (ix *Index) Lookup(pos model.Position) (Region, bool) {
	if ix == nil {
		return Region{}, false
	}
	px, py := ix.transform.ToImage(pos)
	if px < 0 || py < 0 || px >= ix.width || py >= ix.height {
		return Region{}, false
	}
	o := ix.cells[py*ix.width+px]
	if o == 0 {
		return Region{}, false
	}
	return ix.palette.byOrdinal(o), true
}

// Len returns the number of classified tiles.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.count
}

// Transform returns the transform the index was built with.
func (ix *Index) Transform() Transform {
	if ix == nil {
		return Transform{}
	}
	return ix.transform
}

// Counts returns classified tile counts per region tag. A nil Index has none.
func (ix *Index) Counts() map[string]int {
	if ix == nil {
		return map[string]int{}
	}
	counts := make(map[string]int, ix.palette.Len())
	for _, o := range ix.cells {
		if o != 0 {
			counts[ix.palette.byOrdinal(o).Tag]++
		}
	}
	return counts
}

// Each calls fn for every classified tile in row-major raster order.
// z is passed through to the positions.
func (ix *Index) Each(z int8, fn func(model.Position, Region) bool) {
	if ix == nil {
		return
	}
	for py := range ix.height {
		row := ix.cells[py*ix.width : (py+1)*ix.width]
		for px, o := range row {
			if o == 0 {
				continue
			}
			if !fn(ix.transform.ToWorld(px, py, z), ix.palette.byOrdinal(o)) {
				return
			}
		}
	}
}

// Equal reports whether both indexes hold the same keys and regions.
func (ix *Index) Equal(other *Index) bool {
	if ix == nil || other == nil {
		return ix == other
	}
	if ix.count != other.count {
		return false
	}
	eq := true
	ix.Each(0, func(pos model.Position, r Region) bool {
		got, ok := other.Lookup(pos)
		if !ok || got != r {
			eq = false
		}
		return eq
	})
	return eq
}
