package otel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/emiliopalmerini/polymer-explorer/internal/ports"
)

func TestExporter_RecordQuery(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()

	exp, err := newExporter(ctx, reader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = exp.Close(ctx) })

	require.NoError(t, exp.RecordQuery(ctx, ports.QueryEvent{Operation: "filter_experiments", ResultSize: 11, Duration: time.Millisecond}))
	require.NoError(t, exp.RecordQuery(ctx, ports.QueryEvent{Operation: "correlation", Failed: true}))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	got := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			got[m.Name] = m.Data
		}
	}

	queries, ok := got["polyx_queries_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range queries.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)

	errs, ok := got["polyx_query_errors_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, errs.DataPoints, 1)
	op, _ := errs.DataPoints[0].Attributes.Value("operation")
	assert.Equal(t, "correlation", op.AsString())

	sizes, ok := got["polyx_query_result_size"].(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, sizes.DataPoints, 1)
	assert.Equal(t, int64(11), sizes.DataPoints[0].Sum)
}

func TestNewExporter_Disabled(t *testing.T) {
	_, err := NewExporter(context.Background(), Config{Enabled: false})
	assert.Error(t, err)
}

func TestNewFromConfig_DisabledIsNoOp(t *testing.T) {
	exp, err := NewFromConfig(context.Background(), Config{})
	require.NoError(t, err)
	assert.IsType(t, &NoOpExporter{}, exp)
	assert.NoError(t, exp.RecordQuery(context.Background(), ports.QueryEvent{Operation: "x"}))
	assert.NoError(t, exp.Close(context.Background()))
}
