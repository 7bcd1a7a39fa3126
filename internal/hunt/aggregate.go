// Package hunt joins map tiles, the region index, the spawn index and the area
// catalog into a per-region report of hunt areas.
package hunt

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/huntatlas/internal/area"
	"github.com/udisondev/huntatlas/internal/model"
	"github.com/udisondev/huntatlas/internal/otbm"
	"github.com/udisondev/huntatlas/internal/raster"
	"github.com/udisondev/huntatlas/internal/spawn"
)

// NotFoundRegion buckets hunt areas whose region could not be resolved.
const NotFoundRegion = "[NOT FOUND REGION]"

// RegionLookup resolves the region owning a tile.
type RegionLookup interface {
	Lookup(pos model.Position) (raster.Region, bool)
}

// SpawnLookup returns the monsters spawning on a tile.
type SpawnLookup interface {
	At(pos model.Position) []spawn.Record
}

// Order selects report ordering.
type Order int

const (
	// OrderCatalog keeps catalog order for areas and first appearance for regions.
	OrderCatalog Order = iota
	// OrderByName sorts regions and areas by name.
	OrderByName
	// OrderByCount sorts regions by hunt count and areas by monster count, descending.
	OrderByCount
)

// ParseOrder maps a config value to an Order. Empty means OrderCatalog.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "catalog":
		return OrderCatalog, nil
	case "name":
		return OrderByName, nil
	case "count":
		return OrderByCount, nil
	}
	return OrderCatalog, fmt.Errorf("unknown report order %q", s)
}

// AreaReport summarises one hunt area.
type AreaReport struct {
	AreaID             uint32
	AreaName           string
	Anchor             model.Position
	HasAnchor          bool
	TileCount          int
	TotalMonsters      int
	UniqueMonsterNames []string
}

// RegionReport groups the hunt areas resolved to one region.
type RegionReport struct {
	RegionName string
	RegionTag  string
	HuntAreas  []AreaReport
}

// Audit counts data-quality problems seen while aggregating.
type Audit struct {
	TilesWithoutArea    int
	UnknownAreaTiles    int
	NonHuntAreas        int
	HuntAreasNoTiles    int
	AnchorParseFailures int
	RegionMisses        int
	EmptyHuntTiles      int
	SimilarNames        []NamePair
}

// Result is the aggregator output.
type Result struct {
	Regions []RegionReport
	Audit   Audit
}

// Options tunes Build.
type Options struct {
	Order Order
	// SimilarityThreshold enables near-duplicate monster name detection when > 0.
	SimilarityThreshold float64
}

// Build joins the four inputs. Tiles must hold absolute coordinates. A nil
// catalog counts every area tile as unknown.
func Build(tiles []otbm.Tile, regions RegionLookup, spawns SpawnLookup, catalog *area.Catalog, opts Options) Result {
	var res Result
	audit := &res.Audit

	// 1. группируем тайлы по area id
	byArea := make(map[uint32][]int)
	for i := range tiles {
		t := &tiles[i]
		if !t.HasArea {
			audit.TilesWithoutArea++
			continue
		}
		if _, ok := catalog.Get(t.AreaID); !ok {
			audit.UnknownAreaTiles++
		}
		byArea[t.AreaID] = append(byArea[t.AreaID], i)
	}

	regionIdx := make(map[string]int)
	allNames := make(map[string]struct{})

	for _, id := range catalog.Order() {
		name := catalog.Name(id)

		// 2. только hunt-зоны
		if !area.IsHunt(name) {
			if _, ok := byArea[id]; ok {
				audit.NonHuntAreas++
			}
			continue
		}
		idx, ok := byArea[id]
		if !ok {
			audit.HuntAreasNoTiles++
			continue
		}

		// 3. спавны по тайлам
		rep := AreaReport{AreaID: id, AreaName: name, TileCount: len(idx)}
		unique := make(map[string]struct{})
		for _, i := range idx {
			recs := spawns.At(tiles[i].Position())
			if len(recs) == 0 {
				audit.EmptyHuntTiles++
				continue
			}
			rep.TotalMonsters += len(recs)
			for _, r := range recs {
				unique[r.MonsterName] = struct{}{}
				allNames[r.MonsterName] = struct{}{}
			}
		}
		rep.UniqueMonsterNames = sortedKeys(unique)

		// 4. регион по якорю из названия
		regionName, regionTag := NotFoundRegion, ""
		if anchor, ok := area.ExtractHuntAnchor(name); ok {
			rep.Anchor, rep.HasAnchor = anchor, true
			if r, ok := regions.Lookup(anchor); ok {
				regionName, regionTag = r.Name, r.Tag
			} else {
				audit.RegionMisses++
				slog.Warn("hunt anchor outside classified raster", "area_id", id, "area", name, "anchor", anchor)
			}
		} else {
			audit.AnchorParseFailures++
			slog.Warn("hunt area name has no anchor", "area_id", id, "area", name)
		}

		// 5. группировка по региону в порядке первого появления
		ri, ok := regionIdx[regionName]
		if !ok {
			ri = len(res.Regions)
			regionIdx[regionName] = ri
			res.Regions = append(res.Regions, RegionReport{RegionName: regionName, RegionTag: regionTag})
		}
		res.Regions[ri].HuntAreas = append(res.Regions[ri].HuntAreas, rep)
	}

	sortRegions(res.Regions, opts.Order)

	if opts.SimilarityThreshold > 0 {
		audit.SimilarNames = SimilarNames(sortedKeys(allNames), opts.SimilarityThreshold)
	}
	return res
}

func sortRegions(regions []RegionReport, order Order) {
	switch order {
	case OrderByName:
		slices.SortStableFunc(regions, func(a, b RegionReport) int {
			return cmp.Compare(a.RegionName, b.RegionName)
		})
		for i := range regions {
			slices.SortStableFunc(regions[i].HuntAreas, func(a, b AreaReport) int {
				return cmp.Compare(a.AreaName, b.AreaName)
			})
		}
	case OrderByCount:
		slices.SortStableFunc(regions, func(a, b RegionReport) int {
			return cmp.Compare(len(b.HuntAreas), len(a.HuntAreas))
		})
		for i := range regions {
			slices.SortStableFunc(regions[i].HuntAreas, func(a, b AreaReport) int {
				return cmp.Compare(b.TotalMonsters, a.TotalMonsters)
			})
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// HuntCount returns the total number of hunt areas across regions.
func (r Result) HuntCount() int {
	n := 0
	for _, reg := range r.Regions {
		n += len(reg.HuntAreas)
	}
	return n
}
