package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/huntatlas/internal/hunt"
	"github.com/udisondev/huntatlas/internal/model"
	"github.com/udisondev/huntatlas/internal/otbm"
	"github.com/udisondev/huntatlas/internal/snapshot"
	"github.com/udisondev/huntatlas/internal/testutil"
)

// writeConfig writes a YAML config pointing at the fixture world.
func writeConfig(t *testing.T, w testutil.World) string {
	t.Helper()
	cfg := fmt.Sprintf(`log_level: warn
inputs:
  map: %q
  raster: %q
  spawns: %q
  areas: %q
raster:
  center_x: %v
  center_y: %v
  vision_size: %v
  floor: 7
  workers: 2
`, w.Inputs.Map, w.Inputs.Raster, w.Inputs.Spawns, w.Inputs.Areas,
		w.Transform.CenterX, w.Transform.CenterY, w.Transform.VisionSize)

	path := filepath.Join(t.TempDir(), "huntatlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRunReport(t *testing.T) {
	w := testutil.WriteWorld(t)
	cfgPath := writeConfig(t, w)

	out, err := runCLI(t, "-config", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Regions: 2, hunt areas: 2")
	assert.Contains(t, out, "=== Rookgaard (1 hunts) ===")
	assert.Contains(t, out, "[10] Rat Hunt x=100, y=100, z=7")
	assert.Contains(t, out, "tiles: 3, monsters: 3")
	assert.Contains(t, out, "unique: Bat, Rat")
	assert.Contains(t, out, "=== "+hunt.NotFoundRegion+" (1 hunts) ===")
	assert.Contains(t, out, "[11] Swamp Hunt")
	assert.NotContains(t, out, "Depot")
	assert.NotContains(t, out, "data quality")
}

func TestRunReportWithAuditToFile(t *testing.T) {
	w := testutil.WriteWorld(t)
	cfgPath := writeConfig(t, w)
	outPath := filepath.Join(t.TempDir(), "report.txt")

	out, err := runCLI(t, "-config", cfgPath, "-audit", "-out", outPath, "report")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "=== Rookgaard (1 hunts) ===")
	assert.Contains(t, string(data), "--- data quality ---")
	assert.Contains(t, string(data), "tiles without area:      1")
}

func TestRunSeveralCommands(t *testing.T) {
	w := testutil.WriteWorld(t)
	cfgPath := writeConfig(t, w)

	out, err := runCLI(t, "-config", cfgPath, "-x", "100", "-y", "100", "ids", "regions", "locate")
	require.NoError(t, err)

	assert.Contains(t, out, "Total unique ids: 6\n405\n1987\n2148\n4526\n4527\n4600\n")
	assert.Contains(t, out, "#00FF21")
	assert.Contains(t, out, "classified: 128, transparent: 128, unmatched: 0")
	assert.Contains(t, out, "town Rookgaard temple (100, 101, 7): Rookgaard")
	assert.Contains(t, out, "Position: (100, 100, 7)")
	assert.Contains(t, out, "Region: Rookgaard (rookgaard)")
	assert.Contains(t, out, "Area: [10] Rat Hunt x=100, y=100, z=7")
	assert.Contains(t, out, "Monsters: 2")
}

func TestRunLocateOutsideRaster(t *testing.T) {
	w := testutil.WriteWorld(t)
	cfgPath := writeConfig(t, w)

	out, err := runCLI(t, "-config", cfgPath, "-x", "5000", "-y", "5000", "locate")
	require.NoError(t, err)

	assert.Contains(t, out, "Region: "+hunt.NotFoundRegion)
	assert.Contains(t, out, "Area: -")
	assert.Contains(t, out, "Monsters: 0")
}

func TestRunLocateDuplicateTileLastWins(t *testing.T) {
	w := testutil.WriteWorld(t)
	cfgPath := writeConfig(t, w)

	// два tile area с одним origin: (100,100,7) сначала в Depot, потом в Rat Hunt
	mw := otbm.NewWriter()
	mw.Start(otbm.NodeRootV1).Header(otbm.Header{Version: 2, Width: 256, Height: 256})
	mw.Start(otbm.NodeMapData)
	mw.TileArea(model.NewPosition(100, 100, 7))
	mw.Tile(0, 0, 405, nil, testutil.WorldDepotID)
	mw.End()
	mw.TileArea(model.NewPosition(100, 100, 7))
	mw.Tile(0, 0, 4526, nil, testutil.WorldRatHuntID)
	mw.End()
	mw.End().End()
	require.NoError(t, os.WriteFile(w.Inputs.Map, mw.Bytes(), 0o644))

	out, err := runCLI(t, "-config", cfgPath, "-x", "100", "-y", "100", "locate")
	require.NoError(t, err)

	assert.Contains(t, out, "Area: [10] Rat Hunt x=100, y=100, z=7")
	assert.NotContains(t, out, "Depot")
}

func TestRunRejectsFloorOutOfRange(t *testing.T) {
	w := testutil.WriteWorld(t)
	cfgPath := writeConfig(t, w)

	tests := []struct {
		name string
		z    string
	}{
		{"above int8", "300"},
		{"just above int8", "128"},
		{"negative", "-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "-config", cfgPath, "-x", "100", "-y", "100", "-z", tt.z, "locate")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "out of range")
			assert.Empty(t, out)
		})
	}

	out, err := runCLI(t, "-config", cfgPath, "-x", "100", "-y", "100", "-z", "127", "locate")
	require.NoError(t, err)
	assert.Contains(t, out, "Position: (100, 100, 127)")
}

func TestRunFatalInputProducesNoReport(t *testing.T) {
	w := testutil.WriteWorld(t)
	cfgPath := writeConfig(t, w)
	require.NoError(t, os.Remove(w.Inputs.Spawns))

	out, err := runCLI(t, "-config", cfgPath)
	require.Error(t, err)
	assert.Empty(t, out)

	var fe *snapshot.FatalInputError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, snapshot.InputSpawns, fe.Input)
}

func TestRunRejectsBadArguments(t *testing.T) {
	w := testutil.WriteWorld(t)
	cfgPath := writeConfig(t, w)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"-config", cfgPath, "render"}},
		{"unknown order", []string{"-config", cfgPath, "-order", "size"}},
		{"unknown flag", []string{"-config", cfgPath, "-bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			assert.Error(t, err)
			assert.Empty(t, out)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}
