package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/huntatlas/internal/hunt"
	"github.com/udisondev/huntatlas/internal/model"
)

// Run is one exported report.
type Run struct {
	ID          int64
	Fingerprint string
	CreatedAt   time.Time
	RegionCount int
	HuntCount   int
	Hunts       []HuntRow
}

// HuntRow is one hunt area of a run, flattened with its region.
// Positions keep the report order.
type HuntRow struct {
	RegionPos      int
	RegionName     string
	RegionTag      string
	AreaPos        int
	AreaID         uint32
	AreaName       string
	HasAnchor      bool
	Anchor         model.Position
	TileCount      int
	TotalMonsters  int
	UniqueMonsters []string
}

// NewRun flattens an aggregator result for export.
func NewRun(fingerprint string, res hunt.Result) Run {
	run := Run{
		Fingerprint: fingerprint,
		RegionCount: len(res.Regions),
		HuntCount:   res.HuntCount(),
		Hunts:       make([]HuntRow, 0, res.HuntCount()),
	}
	for ri, r := range res.Regions {
		for ai, a := range r.HuntAreas {
			run.Hunts = append(run.Hunts, HuntRow{
				RegionPos:      ri,
				RegionName:     r.RegionName,
				RegionTag:      r.RegionTag,
				AreaPos:        ai,
				AreaID:         a.AreaID,
				AreaName:       a.AreaName,
				HasAnchor:      a.HasAnchor,
				Anchor:         a.Anchor,
				TileCount:      a.TileCount,
				TotalMonsters:  a.TotalMonsters,
				UniqueMonsters: a.UniqueMonsterNames,
			})
		}
	}
	return run
}

// Regions rebuilds the region blocks of a run in report order.
func (r Run) Regions() []hunt.RegionReport {
	var out []hunt.RegionReport
	for _, h := range r.Hunts {
		if len(out) == 0 || h.RegionPos != len(out)-1 {
			out = append(out, hunt.RegionReport{RegionName: h.RegionName, RegionTag: h.RegionTag})
		}
		last := &out[len(out)-1]
		last.HuntAreas = append(last.HuntAreas, hunt.AreaReport{
			AreaID:             h.AreaID,
			AreaName:           h.AreaName,
			Anchor:             h.Anchor,
			HasAnchor:          h.HasAnchor,
			TileCount:          h.TileCount,
			TotalMonsters:      h.TotalMonsters,
			UniqueMonsterNames: h.UniqueMonsters,
		})
	}
	return out
}

// ReportRepository stores report runs.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// SaveRun inserts the run and all its hunt rows in one transaction and
// returns the new run id.
func (r *ReportRepository) SaveRun(ctx context.Context, run Run) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction for run %s: %w", run.Fingerprint, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "fingerprint", run.Fingerprint, "error", err)
		}
	}()

	var runID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO report_runs (fingerprint, region_count, hunt_count)
		 VALUES ($1, $2, $3)
		 RETURNING run_id`,
		run.Fingerprint, run.RegionCount, run.HuntCount,
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("inserting run %s: %w", run.Fingerprint, err)
	}

	if len(run.Hunts) > 0 {
		rows := make([][]any, 0, len(run.Hunts))
		for _, h := range run.Hunts {
			monsters := h.UniqueMonsters
			if monsters == nil {
				monsters = []string{}
			}
			rows = append(rows, []any{
				runID, h.RegionPos, h.RegionName, h.RegionTag,
				h.AreaPos, int64(h.AreaID), h.AreaName,
				h.HasAnchor, h.Anchor.X, h.Anchor.Y, int16(h.Anchor.Z),
				h.TileCount, h.TotalMonsters, monsters,
			})
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"report_hunts"},
			[]string{
				"run_id", "region_pos", "region_name", "region_tag",
				"area_pos", "area_id", "area_name",
				"has_anchor", "anchor_x", "anchor_y", "anchor_z",
				"tile_count", "total_monsters", "unique_monsters",
			},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return 0, fmt.Errorf("copying %d hunt rows for run %d: %w", len(rows), runID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit run %d: %w", runID, err)
	}
	return runID, nil
}

// LatestRun returns the most recent run, optionally restricted to a
// fingerprint. Returns nil, nil if there is none.
func (r *ReportRepository) LatestRun(ctx context.Context, fingerprint string) (*Run, error) {
	var run Run
	err := r.pool.QueryRow(ctx,
		`SELECT run_id, fingerprint, created_at, region_count, hunt_count
		 FROM report_runs
		 WHERE $1 = '' OR fingerprint = $1
		 ORDER BY run_id DESC
		 LIMIT 1`, fingerprint,
	).Scan(&run.ID, &run.Fingerprint, &run.CreatedAt, &run.RegionCount, &run.HuntCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying latest run: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT region_pos, region_name, region_tag, area_pos, area_id, area_name,
		        has_anchor, anchor_x, anchor_y, anchor_z,
		        tile_count, total_monsters, unique_monsters
		 FROM report_hunts
		 WHERE run_id = $1
		 ORDER BY region_pos, area_pos`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("loading hunts of run %d: %w", run.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			h      HuntRow
			areaID int64
			z      int16
		)
		if err := rows.Scan(
			&h.RegionPos, &h.RegionName, &h.RegionTag, &h.AreaPos, &areaID, &h.AreaName,
			&h.HasAnchor, &h.Anchor.X, &h.Anchor.Y, &z,
			&h.TileCount, &h.TotalMonsters, &h.UniqueMonsters,
		); err != nil {
			return nil, fmt.Errorf("scanning hunt row: %w", err)
		}
		h.AreaID = uint32(areaID)
		h.Anchor.Z = int8(z)
		run.Hunts = append(run.Hunts, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hunt rows: %w", err)
	}

	return &run, nil
}
