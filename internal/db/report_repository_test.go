package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/huntatlas/internal/db"
	"github.com/udisondev/huntatlas/internal/hunt"
	"github.com/udisondev/huntatlas/internal/model"
	"github.com/udisondev/huntatlas/internal/testutil"
)

func sampleResult() hunt.Result {
	return hunt.Result{Regions: []hunt.RegionReport{
		{
			RegionName: "Rookgaard",
			RegionTag:  "rookgaard",
			HuntAreas: []hunt.AreaReport{
				{
					AreaID: 10, AreaName: "Rat Hunt x=100, y=100, z=7",
					Anchor: model.NewPosition(100, 100, 7), HasAnchor: true,
					TileCount: 3, TotalMonsters: 3,
					UniqueMonsterNames: []string{"Bat", "Rat"},
				},
				{AreaID: 12, AreaName: "Cave Hunt", TileCount: 1, UniqueMonsterNames: []string{}},
			},
		},
		{
			RegionName: hunt.NotFoundRegion,
			HuntAreas: []hunt.AreaReport{
				{AreaID: 11, AreaName: "Swamp Hunt", TileCount: 1, UniqueMonsterNames: []string{}},
			},
		},
	}}
}

func TestNewRunFlattensInOrder(t *testing.T) {
	run := db.NewRun("abc", sampleResult())

	assert.Equal(t, 2, run.RegionCount)
	assert.Equal(t, 3, run.HuntCount)
	require.Len(t, run.Hunts, 3)
	assert.Equal(t, []uint32{10, 12, 11}, []uint32{run.Hunts[0].AreaID, run.Hunts[1].AreaID, run.Hunts[2].AreaID})
	assert.Equal(t, 1, run.Hunts[1].AreaPos)
	assert.Equal(t, 1, run.Hunts[2].RegionPos)
	assert.Equal(t, 0, run.Hunts[2].AreaPos)

	regions := run.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, "Rookgaard", regions[0].RegionName)
	assert.Len(t, regions[0].HuntAreas, 2)
	assert.Equal(t, hunt.NotFoundRegion, regions[1].RegionName)
}

func TestReportRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers test in short mode")
	}

	pool := testutil.SetupTestDB(t)
	repo := db.NewReportRepository(pool)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	latest, err := repo.LatestRun(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, latest)

	want := sampleResult()
	firstID, err := repo.SaveRun(ctx, db.NewRun("fp-1", want))
	require.NoError(t, err)
	secondID, err := repo.SaveRun(ctx, db.NewRun("fp-2", hunt.Result{}))
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)

	t.Run("latest overall", func(t *testing.T) {
		got, err := repo.LatestRun(ctx, "")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, secondID, got.ID)
		assert.Empty(t, got.Hunts)
	})

	t.Run("by fingerprint", func(t *testing.T) {
		got, err := repo.LatestRun(ctx, "fp-1")
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, firstID, got.ID)
		assert.Equal(t, 3, got.HuntCount)
		assert.False(t, got.CreatedAt.IsZero())
		assert.Equal(t, want.Regions, got.Regions())
	})

	t.Run("unknown fingerprint", func(t *testing.T) {
		got, err := repo.LatestRun(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
