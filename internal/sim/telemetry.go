package sim

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/Garsondee/Light-Cycles/internal/sim"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// telemetry holds the simulation's counters. With no global MeterProvider
// installed every instrument is a no-op.
type telemetry struct {
	ticks    metric.Int64Counter
	crashes  metric.Int64Counter
	respawns metric.Int64Counter
	rejected metric.Int64Counter
}

func newTelemetry(log zerolog.Logger) *telemetry {
	t, err := buildTelemetry(meter())
	if err != nil {
		log.Warn().Err(err).Msg("metrics disabled")
		t, _ = buildTelemetry(noop.Meter{})
	}
	return t
}

func buildTelemetry(m metric.Meter) (*telemetry, error) {
	var (
		t   telemetry
		err error
	)
	if t.ticks, err = m.Int64Counter(
		"lightcycles.ticks",
		metric.WithDescription("Simulation ticks advanced"),
	); err != nil {
		return nil, err
	}
	if t.crashes, err = m.Int64Counter(
		"lightcycles.crashes",
		metric.WithDescription("Cycles crashed"),
	); err != nil {
		return nil, err
	}
	if t.respawns, err = m.Int64Counter(
		"lightcycles.respawns",
		metric.WithDescription("Cycles spawned or respawned"),
	); err != nil {
		return nil, err
	}
	if t.rejected, err = m.Int64Counter(
		"lightcycles.spawn.rejected",
		metric.WithDescription("Spawn candidates rejected as blocked"),
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func driverAttr(ai bool) metric.AddOption {
	d := "human"
	if ai {
		d = "ai"
	}
	return metric.WithAttributes(attribute.String("driver", d))
}

func (t *telemetry) tick() {
	t.ticks.Add(context.Background(), 1)
}

func (t *telemetry) crash(ai bool) {
	t.crashes.Add(context.Background(), 1, driverAttr(ai))
}

func (t *telemetry) respawn(ai bool) {
	t.respawns.Add(context.Background(), 1, driverAttr(ai))
}

func (t *telemetry) rejectSpawn() {
	t.rejected.Add(context.Background(), 1)
}
