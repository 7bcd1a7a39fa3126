package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/udisondev/huntatlas/internal/config"
	"github.com/udisondev/huntatlas/internal/model"
	"github.com/udisondev/huntatlas/internal/otbm"
	"github.com/udisondev/huntatlas/internal/raster"
)

// World описывает миниатюрный мир на диске для тестов пайплайна.
//
// Raster 16×16, pixel (px, py) → world (px+92, py+92). Anchor (100,100)
// falls on pixel (8,8), painted Rookgaard.
type World struct {
	Inputs    config.Inputs
	Transform raster.Transform
}

// Area ids used by the fixture world.
const (
	WorldRatHuntID   = 10
	WorldSwampHuntID = 11
	WorldDepotID     = 1
)

// WorldTransform maps the 16×16 fixture raster around (100, 100).
var WorldTransform = raster.Transform{CenterX: 100, CenterY: 100, VisionSize: 16}

// WorldMap returns the fixture OTBM container.
//
// Rat Hunt: tiles (100,100) (101,100) (102,100); Swamp Hunt: (105,105);
// Depot: (106,106); one tile without area at (107,107).
func WorldMap() []byte {
	w := otbm.NewWriter()
	w.Start(otbm.NodeRootV1).Header(otbm.Header{Version: 2, Width: 256, Height: 256, ItemsMajor: 3, ItemsMinor: 57})
	w.Start(otbm.NodeMapData).U8(otbm.AttrDescription).Str("fixture world")

	w.TileArea(model.NewPosition(100, 100, 7))
	w.Tile(0, 0, 4526, []uint16{1987}, WorldRatHuntID)
	w.Tile(1, 0, 4526, nil, WorldRatHuntID)
	w.Tile(2, 0, 4527, []uint16{2148, 1987}, WorldRatHuntID)
	w.Tile(5, 5, 4600, nil, WorldSwampHuntID)
	w.Tile(6, 6, 405, nil, WorldDepotID)
	w.Tile(7, 7, 405, nil)
	w.End()

	w.Start(otbm.NodeTowns)
	w.Start(otbm.NodeTown).U32(1).Str("Rookgaard").U16(100).U16(101).U8(7).End()
	w.End()

	w.End().End()
	return w.Bytes()
}

// WorldRaster returns the fixture raster as PNG.
func WorldRaster() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	rook := color.NRGBA{R: 0x00, G: 0xFF, B: 0x21, A: 0xFF}
	thais := color.NRGBA{R: 0xFF, G: 0xD8, B: 0x00, A: 0xFF}
	for y := 8; y < 16; y++ {
		for x := 8; x < 16; x++ {
			img.SetNRGBA(x, y, rook)
		}
	}
	for y := range 8 {
		for x := range 8 {
			img.SetNRGBA(x, y, thais)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic("encoding fixture raster: " + err.Error())
	}
	return buf.Bytes()
}

// WorldSpawns: два Rat на (100,100), Bat на (101,100).
const WorldSpawns = `<?xml version="1.0"?>
<monsters>
	<monster centerx="100" centery="100" centerz="7" radius="2">
		<monster name="Rat" x="0" y="0" z="7" spawntime="60" />
		<monster name="Rat" x="0" y="0" z="7" spawntime="60" />
		<monster name="Bat" x="1" y="0" z="7" spawntime="60" />
	</monster>
	<monster centerx="300" centery="300" centerz="7" radius="1" />
</monsters>`

// WorldAreas is the fixture area catalog.
const WorldAreas = `<?xml version="1.0"?>
<areas>
	<area id="10" name="Rat Hunt x=100, y=100, z=7" />
	<area id="1" name="Rookgaard Depot" />
	<area id="11" name="Swamp Hunt" />
</areas>`

// WriteWorld writes the fixture world into a temp dir.
func WriteWorld(tb testing.TB) World {
	tb.Helper()
	dir := tb.TempDir()

	in := config.Inputs{
		Map:    filepath.Join(dir, "world.otbm"),
		Raster: filepath.Join(dir, "regions.png"),
		Spawns: filepath.Join(dir, "world-monster.xml"),
		Areas:  filepath.Join(dir, "areas.xml"),
	}
	files := map[string][]byte{
		in.Map:    WorldMap(),
		in.Raster: WorldRaster(),
		in.Spawns: []byte(WorldSpawns),
		in.Areas:  []byte(WorldAreas),
	}
	for path, data := range files {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			tb.Fatalf("writing fixture %s: %v", path, err)
		}
	}
	return World{Inputs: in, Transform: WorldTransform}
}
