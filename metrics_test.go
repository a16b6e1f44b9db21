package pgwire

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.connectionOpened()
		m.connectionClosed()
		m.querySucceeded()
		m.queryFailed("42P01")
	})
}

func TestMetricsRecordAgainstOwnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.connectionOpened()
	m.querySucceeded()
	m.queryFailed("42P01")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
