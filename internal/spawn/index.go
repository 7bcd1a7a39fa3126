package spawn

import (
	"slices"

	"github.com/udisondev/huntatlas/internal/model"
)

// Record is one monster placed on an absolute tile.
type Record struct {
	MonsterName string
	Position    model.Position
}

// Index maps tiles to the monsters spawning there. Keys ignore the floor,
// matching how hunt tiles are joined against spawns. Read-only once built.
type Index struct {
	byTile  map[model.PlaneKey][]Record
	records int
	centers int
}

// BuildIndex places every monster at center + (dx, dy). Monsters sharing a
// tile are all kept; centers without monsters add nothing.
func BuildIndex(centers []Center) *Index {
	ix := &Index{byTile: make(map[model.PlaneKey][]Record, len(centers)*2)}

	for i := range centers {
		c := &centers[i]
		if len(c.Monsters) == 0 {
			continue
		}
		ix.centers++
		for _, m := range c.Monsters {
			pos := c.Position.Offset(m.DX, m.DY)
			key := pos.Plane()
			ix.byTile[key] = append(ix.byTile[key], Record{MonsterName: m.Name, Position: pos})
			ix.records++
		}
	}
	return ix
}

// At returns the monsters on pos, ignoring its floor. The slice must not be
// modified.
func (ix *Index) At(pos model.Position) []Record {
	if ix == nil {
		return nil
	}
	return ix.byTile[pos.Plane()]
}

// Len returns the number of distinct tiles with spawns.
func (ix *Index) Len() int {
	return len(ix.byTile)
}

// Total returns the number of monster records.
func (ix *Index) Total() int {
	return ix.records
}

// Centers returns the number of centers that contributed monsters.
func (ix *Index) Centers() int {
	return ix.centers
}

// Monsters returns the distinct monster names, sorted.
func (ix *Index) Monsters() []string {
	seen := make(map[string]struct{})
	for _, recs := range ix.byTile {
		for _, r := range recs {
			seen[r.MonsterName] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
