// Package observe records data-quality and timing metrics of a report run
// through the OpenTelemetry Metrics API.
//
// Tests should use [NewMetrics] with a ManualReader-backed provider to inspect
// recorded values.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/udisondev/huntatlas/internal/hunt"
	"github.com/udisondev/huntatlas/internal/mapdata"
	"github.com/udisondev/huntatlas/internal/raster"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/udisondev/huntatlas"

// Metric names.
const (
	MetricRasterPixels  = "huntatlas.raster.pixels"
	MetricRecordErrors  = "huntatlas.record.errors"
	MetricLookupMisses  = "huntatlas.lookup.misses"
	MetricHuntAreas     = "huntatlas.report.hunt_areas"
	MetricPhaseDuration = "huntatlas.phase.duration"
)

// Metrics holds all instruments. Safe for concurrent use.
type Metrics struct {
	// RasterPixels counts pixels by outcome: classified, transparent, unmatched.
	RasterPixels metric.Int64Counter

	// RecordErrors counts recoverable record errors by kind.
	RecordErrors metric.Int64Counter

	// LookupMisses counts joins that fell back to a sentinel, by kind.
	LookupMisses metric.Int64Counter

	// HuntAreas counts reported hunt areas.
	HuntAreas metric.Int64Counter

	// PhaseDuration tracks pipeline phase latency. Use with attribute "phase".
	PhaseDuration metric.Float64Histogram
}

var phaseBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// NewMetrics creates all instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.RasterPixels, err = m.Int64Counter(MetricRasterPixels,
		metric.WithDescription("Raster pixels visited, by outcome."),
	); err != nil {
		return nil, err
	}
	if met.RecordErrors, err = m.Int64Counter(MetricRecordErrors,
		metric.WithDescription("Recoverable record errors, by kind."),
	); err != nil {
		return nil, err
	}
	if met.LookupMisses, err = m.Int64Counter(MetricLookupMisses,
		metric.WithDescription("Joins resolved to a sentinel, by kind."),
	); err != nil {
		return nil, err
	}
	if met.HuntAreas, err = m.Int64Counter(MetricHuntAreas,
		metric.WithDescription("Hunt areas in the report."),
	); err != nil {
		return nil, err
	}
	if met.PhaseDuration, err = m.Float64Histogram(MetricPhaseDuration,
		metric.WithDescription("Duration of a pipeline phase."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(phaseBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

func kind(k string) metric.AddOption {
	return metric.WithAttributes(attribute.String("kind", k))
}

// RecordRaster records one classification pass.
func (m *Metrics) RecordRaster(ctx context.Context, st raster.Stats) {
	m.RasterPixels.Add(ctx, int64(st.Classified), metric.WithAttributes(attribute.String("outcome", "classified")))
	m.RasterPixels.Add(ctx, int64(st.Transparent), metric.WithAttributes(attribute.String("outcome", "transparent")))
	m.RasterPixels.Add(ctx, int64(st.Unmatched), metric.WithAttributes(attribute.String("outcome", "unmatched")))
}

// RecordExtract records feature extraction problems.
func (m *Metrics) RecordExtract(ctx context.Context, st mapdata.ExtractStats) {
	m.RecordErrors.Add(ctx, int64(st.MalformedFeatures), kind("malformed_feature"))
}

// RecordAudit records aggregation outcomes.
func (m *Metrics) RecordAudit(ctx context.Context, res hunt.Result) {
	a := res.Audit
	m.RecordErrors.Add(ctx, int64(a.AnchorParseFailures), kind("anchor_parse"))
	m.LookupMisses.Add(ctx, int64(a.UnknownAreaTiles), kind("unknown_area"))
	m.LookupMisses.Add(ctx, int64(a.RegionMisses), kind("region"))
	m.LookupMisses.Add(ctx, int64(a.EmptyHuntTiles), kind("spawn"))
	m.HuntAreas.Add(ctx, int64(res.HuntCount()))
}

// ObservePhase records how long a phase took since start.
func (m *Metrics) ObservePhase(ctx context.Context, phase string, start time.Time) {
	m.PhaseDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("phase", phase)))
}
