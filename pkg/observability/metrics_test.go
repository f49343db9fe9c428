package observability

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	h := m.Hooks()
	ctx := context.Background()

	for i := range 3 {
		h.OnTrialComplete(ctx, &domain.TrialEvent{Policy: domain.ColdBiased, Steps: 10, Trial: i, Distance: 4})
	}
	h.OnBatchComplete(ctx, &domain.BatchEvent{Policy: domain.ColdBiased, Elapsed: 20 * time.Millisecond})
	h.OnBatchComplete(ctx, &domain.BatchEvent{Policy: domain.EastWest2, Failed: true})
	h.OnTeleport(&domain.TeleportEvent{})
	h.OnTeleport(&domain.TeleportEvent{})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Trials.WithLabelValues("cold-biased")))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.Steps.WithLabelValues("cold-biased")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchFailures.WithLabelValues("east-west2")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BatchFailures.WithLabelValues("cold-biased")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Teleports))

	assert.Equal(t, 1, testutil.CollectAndCount(m.Distance))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "drunkard_trials_total")
	assert.Contains(t, names, "drunkard_teleports_total")
	assert.Contains(t, names, "drunkard_batch_duration_seconds")
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(nil)
		NewMetrics(nil)
	})
}
