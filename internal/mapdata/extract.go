// Package mapdata flattens the decoded map tree into tiles with absolute
// coordinates and audits the ids it contains.
package mapdata

import (
	"log/slog"

	"github.com/udisondev/huntatlas/internal/otbm"
)

// ExtractStats counts what the extractor saw.
type ExtractStats struct {
	Features          int
	TileAreas         int
	Tiles             int
	TilesWithArea     int
	MalformedFeatures int
	EmptyFeatures     int
}

// ExtractTiles emits every tile of every tile-area feature with absolute
// coordinates. Tile coordinates are rewritten in place on the map, so the
// map's features hold absolute values afterwards; a second call is a no-op
// for coordinates.
//
// Features with a malformed or missing tile list are skipped and counted.
func ExtractTiles(m *otbm.Map) ([]otbm.Tile, ExtractStats) {
	var stats ExtractStats
	if m == nil {
		return nil, stats
	}

	total := 0
	for i := range m.Features {
		total += len(m.Features[i].Tiles)
	}
	out := make([]otbm.Tile, 0, total)

	for i := range m.Features {
		f := &m.Features[i]
		stats.Features++

		if f.Kind != otbm.NodeTileArea {
			continue
		}
		stats.TileAreas++

		if f.Malformed {
			stats.MalformedFeatures++
			slog.Warn("skipping malformed tile area", "origin", f.Origin, "reason", f.Reason)
			continue
		}
		if f.Tiles == nil {
			stats.EmptyFeatures++
			continue
		}

		for j := range f.Tiles {
			t := &f.Tiles[j]
			if !t.Absolute {
				t.X += f.Origin.X
				t.Y += f.Origin.Y
				t.Z = f.Origin.Z
				t.Absolute = true
			}
			if t.HasArea {
				stats.TilesWithArea++
			}
			out = append(out, *t)
		}
		stats.Tiles += len(f.Tiles)
	}

	slog.Debug("tiles extracted",
		"features", stats.Features,
		"tiles", stats.Tiles,
		"with_area", stats.TilesWithArea,
		"malformed", stats.MalformedFeatures)

	return out, stats
}
