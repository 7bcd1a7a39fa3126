package mapdata

import (
	"bufio"
	"fmt"
	"io"
	"slices"

	"github.com/udisondev/huntatlas/internal/otbm"
)

// CollectUniqueIDs returns every distinct ground id and item id on the map,
// sorted. Id 0 means "no item" and is never listed.
func CollectUniqueIDs(m *otbm.Map) []uint16 {
	if m == nil {
		return nil
	}

	seen := make(map[uint16]struct{}, 4096)
	for i := range m.Features {
		f := &m.Features[i]
		if f.Kind != otbm.NodeTileArea {
			continue
		}
		for j := range f.Tiles {
			t := &f.Tiles[j]
			if t.TileID != 0 {
				seen[t.TileID] = struct{}{}
			}
			for _, id := range t.ItemIDs {
				if id != 0 {
					seen[id] = struct{}{}
				}
			}
		}
	}

	ids := make([]uint16, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// WriteIDList writes a total-count header followed by one id per line.
func WriteIDList(w io.Writer, ids []uint16) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Total unique ids: %d\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(bw, "%d\n", id)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing id list: %w", err)
	}
	return nil
}
