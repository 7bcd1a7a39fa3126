package observe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/huntatlas/internal/hunt"
	"github.com/udisondev/huntatlas/internal/mapdata"
	"github.com/udisondev/huntatlas/internal/raster"
)

func newTestMetrics(t *testing.T) (*Metrics, *Provider) {
	t.Helper()
	p := NewProvider()
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	m, err := NewMetrics(p)
	require.NoError(t, err)
	return m, p
}

func TestRecordRaster(t *testing.T) {
	m, p := newTestMetrics(t)
	ctx := context.Background()

	m.RecordRaster(ctx, raster.Stats{Pixels: 10, Classified: 6, Transparent: 3, Unmatched: 1})

	got, err := p.Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got[MetricRasterPixels+"{outcome=classified}"])
	assert.Equal(t, int64(3), got[MetricRasterPixels+"{outcome=transparent}"])
	assert.Equal(t, int64(1), got[MetricRasterPixels+"{outcome=unmatched}"])
}

func TestRecordExtractAndAudit(t *testing.T) {
	m, p := newTestMetrics(t)
	ctx := context.Background()

	m.RecordExtract(ctx, mapdata.ExtractStats{MalformedFeatures: 2})
	m.RecordAudit(ctx, hunt.Result{
		Regions: []hunt.RegionReport{{HuntAreas: make([]hunt.AreaReport, 3)}},
		Audit: hunt.Audit{
			AnchorParseFailures: 1,
			UnknownAreaTiles:    4,
			RegionMisses:        5,
			EmptyHuntTiles:      6,
		},
	})

	got, err := p.Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got[MetricRecordErrors+"{kind=malformed_feature}"])
	assert.Equal(t, int64(1), got[MetricRecordErrors+"{kind=anchor_parse}"])
	assert.Equal(t, int64(4), got[MetricLookupMisses+"{kind=unknown_area}"])
	assert.Equal(t, int64(5), got[MetricLookupMisses+"{kind=region}"])
	assert.Equal(t, int64(6), got[MetricLookupMisses+"{kind=spawn}"])
	assert.Equal(t, int64(3), got[MetricHuntAreas])
}

func TestObservePhaseIsNotACounter(t *testing.T) {
	m, p := newTestMetrics(t)
	ctx := context.Background()

	m.ObservePhase(ctx, "raster", time.Now().Add(-time.Second))

	got, err := p.Counters(ctx)
	require.NoError(t, err)
	for name := range got {
		assert.NotContains(t, name, MetricPhaseDuration)
	}
}
