package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/udisondev/huntatlas/internal/config"
	"github.com/udisondev/huntatlas/internal/db"
	"github.com/udisondev/huntatlas/internal/hunt"
	"github.com/udisondev/huntatlas/internal/mapdata"
	"github.com/udisondev/huntatlas/internal/model"
	"github.com/udisondev/huntatlas/internal/observe"
	"github.com/udisondev/huntatlas/internal/otbm"
	"github.com/udisondev/huntatlas/internal/raster"
	"github.com/udisondev/huntatlas/internal/snapshot"
)

const (
	cmdReport  = "report"
	cmdIDs     = "ids"
	cmdRegions = "regions"
	cmdLocate  = "locate"
)

var commandNames = []string{cmdReport, cmdIDs, cmdRegions, cmdLocate}

// env is shared by all commands of one invocation. Commands run in order
// and reuse snapshots through the cache.
type env struct {
	cfg     config.Report
	flags   flags
	order   hunt.Order
	palette *raster.Palette
	cache   *snapshot.Cache
	metrics *observe.Metrics
	stdout  io.Writer
}

func (e *env) dispatch(ctx context.Context, name string) error {
	start := time.Now()
	loads := e.cache.Loads()

	snap, err := e.cache.Get(ctx, e.cfg.Inputs)
	if err != nil {
		return err
	}
	if e.cache.Loads() > loads {
		e.metrics.ObservePhase(ctx, "load", start)
		e.metrics.RecordRaster(ctx, snap.RasterStats)
		for input, d := range snap.Durations {
			slog.Debug("input loaded", "input", input, "duration", d)
		}
	}

	switch name {
	case cmdReport:
		return e.report(ctx, snap)
	case cmdIDs:
		return e.ids(snap)
	case cmdRegions:
		return e.regions(snap)
	case cmdLocate:
		return e.locate(snap)
	}
	return fmt.Errorf("unknown command %q", name)
}

// report builds the full hunt report. Nothing is written unless every phase
// succeeded.
func (e *env) report(ctx context.Context, snap *snapshot.Snapshot) error {
	start := time.Now()
	tiles, st := mapdata.ExtractTiles(snap.Map)
	e.metrics.RecordExtract(ctx, st)
	e.metrics.ObservePhase(ctx, "extract", start)
	slog.Info("tiles extracted",
		"features", st.Features,
		"tiles", st.Tiles,
		"with_area", st.TilesWithArea,
		"malformed_features", st.MalformedFeatures)

	if err := ctx.Err(); err != nil {
		return err
	}

	start = time.Now()
	res := hunt.Build(tiles, snap.Regions, snap.Spawns, snap.Areas, hunt.Options{
		Order:               e.order,
		SimilarityThreshold: e.cfg.Audit.SimilarNames,
	})
	e.metrics.RecordAudit(ctx, res)
	e.metrics.ObservePhase(ctx, "aggregate", start)

	for _, p := range res.Audit.SimilarNames {
		slog.Warn("similar monster names", "a", p.A, "b", p.B, "score", p.Score)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := hunt.Render(&buf, hunt.Header{Fingerprint: snap.Fingerprint}, res); err != nil {
		return err
	}
	if e.flags.audit {
		if err := hunt.RenderAudit(&buf, res.Audit); err != nil {
			return err
		}
	}
	if err := e.write(e.cfg.Output.Report, buf.Bytes()); err != nil {
		return err
	}
	slog.Info("report written", "regions", len(res.Regions), "hunt_areas", res.HuntCount())

	if e.cfg.Database.Enabled {
		return e.export(ctx, snap.Fingerprint, res)
	}
	return nil
}

// export stores a finished report in PostgreSQL.
func (e *env) export(ctx context.Context, fingerprint string, res hunt.Result) error {
	dsn := e.cfg.Database.DSN()

	database, err := db.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, dsn); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	repo := db.NewReportRepository(database.Pool())
	runID, err := repo.SaveRun(ctx, db.NewRun(fingerprint, res))
	if err != nil {
		return fmt.Errorf("exporting report: %w", err)
	}
	slog.Info("report exported", "run_id", runID, "fingerprint", fingerprint)
	return nil
}

func (e *env) ids(snap *snapshot.Snapshot) error {
	ids := mapdata.CollectUniqueIDs(snap.Map)

	var buf bytes.Buffer
	if err := mapdata.WriteIDList(&buf, ids); err != nil {
		return err
	}
	return e.write(e.cfg.Output.IDs, buf.Bytes())
}

// regions prints the palette with classified tile counts and the region of
// every town temple.
func (e *env) regions(snap *snapshot.Snapshot) error {
	counts := snap.Regions.Counts()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Snapshot: %s\n", snap.Fingerprint)
	for _, r := range e.palette.Regions() {
		fmt.Fprintf(&buf, "%-20s %-14s %s %8d\n", r.Name, r.Tag, r.Color.Hex(), counts[r.Tag])
	}
	st := snap.RasterStats
	fmt.Fprintf(&buf, "classified: %d, transparent: %d, unmatched: %d\n", st.Classified, st.Transparent, st.Unmatched)

	for _, t := range snap.Map.Towns {
		region := hunt.NotFoundRegion
		if r, ok := snap.Regions.Lookup(t.Temple); ok {
			region = r.Name
		}
		fmt.Fprintf(&buf, "town %s temple %s: %s\n", t.Name, t.Temple, region)
	}

	_, err := e.stdout.Write(buf.Bytes())
	return err
}

// locate prints the region, area and monsters of one tile.
func (e *env) locate(snap *snapshot.Snapshot) error {
	z := e.cfg.Raster.Floor
	if e.flags.z >= 0 {
		z = int8(e.flags.z)
	}
	pos := model.NewPosition(int32(e.flags.x), int32(e.flags.y), z)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Position: %s\n", pos)

	if r, ok := snap.Regions.Lookup(pos); ok {
		fmt.Fprintf(&buf, "Region: %s (%s)\n", r.Name, r.Tag)
	} else {
		fmt.Fprintf(&buf, "Region: %s\n", hunt.NotFoundRegion)
	}

	areaName := "-"
	if t, ok := tileIndex(snap.Map)[pos]; ok && t.HasArea {
		areaName = fmt.Sprintf("[%d] %s", t.AreaID, snap.Areas.Name(t.AreaID))
	}
	fmt.Fprintf(&buf, "Area: %s\n", areaName)

	recs := snap.Spawns.At(pos)
	fmt.Fprintf(&buf, "Monsters: %d\n", len(recs))
	for _, r := range recs {
		fmt.Fprintf(&buf, "  %s\n", r.MonsterName)
	}

	_, err := e.stdout.Write(buf.Bytes())
	return err
}

// tileIndex keys extracted tiles by absolute position. A later tile at the
// same position replaces an earlier one.
func tileIndex(m *otbm.Map) map[model.Position]otbm.Tile {
	tiles, _ := mapdata.ExtractTiles(m)
	idx := make(map[model.Position]otbm.Tile, len(tiles))
	for _, t := range tiles {
		idx[t.Position()] = t
	}
	return idx
}

// write sends out to path, or stdout when path is empty.
func (e *env) write(path string, out []byte) error {
	if path == "" {
		_, err := e.stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
