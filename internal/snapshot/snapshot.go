// Package snapshot loads the four world inputs of a report run concurrently
// and builds the read-only indexes the aggregator joins.
package snapshot

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/huntatlas/internal/area"
	"github.com/udisondev/huntatlas/internal/config"
	"github.com/udisondev/huntatlas/internal/otbm"
	"github.com/udisondev/huntatlas/internal/raster"
	"github.com/udisondev/huntatlas/internal/spawn"
)

// Options configure index construction.
type Options struct {
	Palette   *raster.Palette
	Transform raster.Transform
	Raster    raster.Options
}

// OptionsFromConfig derives Options from the report config.
func OptionsFromConfig(cfg config.Report) (Options, error) {
	p, err := cfg.BuildPalette()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Palette:   p,
		Transform: cfg.Raster.Transform(),
		Raster: raster.Options{
			Workers:      cfg.Raster.Workers,
			AllowAnySize: cfg.Raster.AllowAnySize,
		},
	}, nil
}

// Snapshot holds everything loaded from one set of world files.
type Snapshot struct {
	Inputs      config.Inputs
	Fingerprint string

	Map         *otbm.Map
	Regions     *raster.Index
	RasterStats raster.Stats
	Spawns      *spawn.Index
	Areas       *area.Catalog

	Durations map[string]time.Duration
}

// Load reads and indexes all four inputs concurrently. The first failure
// cancels the rest and is returned as a *FatalInputError.
func Load(ctx context.Context, in config.Inputs, opts Options) (*Snapshot, error) {
	if opts.Palette == nil {
		opts.Palette = raster.DefaultPalette()
	}

	snap := &Snapshot{Inputs: in}
	var digests [4][]byte
	var durations [4]time.Duration

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		data, err := readInput(InputMap, in.Map, &digests[0])
		if err != nil {
			return err
		}
		m, err := otbm.Parse(data)
		if err != nil {
			return fatal(InputMap, in.Map, err)
		}
		snap.Map = m
		durations[0] = time.Since(start)
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		data, err := readInput(InputRaster, in.Raster, &digests[1])
		if err != nil {
			return err
		}
		img, format, err := raster.DecodeImage(data)
		if err != nil {
			return fatal(InputRaster, in.Raster, err)
		}
		ix, st, err := raster.BuildIndex(gctx, img, opts.Palette, opts.Transform, opts.Raster)
		if err != nil {
			if gctx.Err() != nil {
				return err
			}
			return fatal(InputRaster, in.Raster, err)
		}
		snap.Regions, snap.RasterStats = ix, st
		durations[1] = time.Since(start)
		slog.Debug("raster classified", "format", format, "classified", st.Classified, "unmatched", st.Unmatched)
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		data, err := readInput(InputSpawns, in.Spawns, &digests[2])
		if err != nil {
			return err
		}
		centers, err := spawn.Parse(bytes.NewReader(data))
		if err != nil {
			return fatal(InputSpawns, in.Spawns, err)
		}
		snap.Spawns = spawn.BuildIndex(centers)
		durations[2] = time.Since(start)
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		data, err := readInput(InputAreas, in.Areas, &digests[3])
		if err != nil {
			return err
		}
		c, err := area.Decode(bytes.NewReader(data))
		if err != nil {
			return fatal(InputAreas, in.Areas, err)
		}
		for _, id := range c.Duplicates() {
			slog.Warn("duplicate area id in catalog", "area_id", id)
		}
		snap.Areas = c
		durations[3] = time.Since(start)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Fingerprint = combineDigests(digests[:])
	snap.Durations = map[string]time.Duration{
		InputMap:    durations[0],
		InputRaster: durations[1],
		InputSpawns: durations[2],
		InputAreas:  durations[3],
	}

	slog.Info("snapshot loaded",
		"fingerprint", snap.Fingerprint[:16],
		"features", len(snap.Map.Features),
		"classified_tiles", snap.Regions.Len(),
		"spawn_tiles", snap.Spawns.Len(),
		"areas", snap.Areas.Len())

	return snap, nil
}

func readInput(input, path string, digest *[]byte) ([]byte, error) {
	if path == "" {
		return nil, fatal(input, path, fmt.Errorf("path not configured"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fatal(input, path, err)
	}
	sum := blake2b.Sum256(data)
	*digest = sum[:]
	return data, nil
}

// combineDigests hashes per-input digests in fixed input order.
func combineDigests(digests [][]byte) string {
	h, _ := blake2b.New256(nil)
	for _, d := range digests {
		h.Write(d)
	}
	return hex.EncodeToString(h.Sum(nil))
}
