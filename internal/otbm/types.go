// Package otbm decodes the binary world-map container (OTBM) into a typed
// tree of features, tiles, towns and waypoints.
package otbm

import "github.com/udisondev/huntatlas/internal/model"

// Header holds the root node properties.
type Header struct {
	Version    uint32
	Width      uint16
	Height     uint16
	ItemsMajor uint32
	ItemsMinor uint32
}

// Map is the decoded container.
type Map struct {
	Header      Header
	Description []string
	SpawnFile   string
	NpcFile     string
	HouseFile   string
	ZoneFile    string
	Features    []Feature
	Towns       []Town
	Waypoints   []Waypoint
}

// Feature объединяет тайлы с общим локальным началом координат.
type Feature struct {
	Kind   NodeType
	Origin model.Position
	Tiles  []Tile

	// Malformed is set when the tile list could not be decoded; Tiles is nil then.
	Malformed bool
	Reason    string
}

// Tile is one map tile.
//
// X and Y hold the local offset inside the feature after decoding. The
// feature extractor overwrites them with absolute values and sets Absolute.
type Tile struct {
	X, Y     int32
	Z        int8
	Absolute bool

	TileID  uint16
	ItemIDs []uint16
	Flags   uint32
	HouseID uint32

	AreaID  uint32
	HasArea bool
}

// Position returns the tile coordinates as a Position. Only meaningful once
// Absolute is set.
func (t *Tile) Position() model.Position {
	return model.NewPosition(t.X, t.Y, t.Z)
}

// Town is a named temple position.
type Town struct {
	ID     uint32
	Name   string
	Temple model.Position
}

// Waypoint is a named map marker.
type Waypoint struct {
	Name     string
	Position model.Position
}
