package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMetrics_Records(t *testing.T) {
	m := NewRunMetrics()

	m.ObserveRun("regenerate", OutcomeSuccess, 250*time.Millisecond)
	m.ObserveRun("regenerate", OutcomeSuccess, time.Second)
	m.AddOrders(7)
	m.AddException("LeadTimeViolation")
	m.SetLevels(3)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.runs.WithLabelValues("regenerate", OutcomeSuccess)))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.ordersPlanned))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.exceptions.WithLabelValues("LeadTimeViolation")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.levels))
}

func TestRunMetrics_NilIsNoop(t *testing.T) {
	var m *RunMetrics

	assert.NotPanics(t, func() {
		m.ObserveRun("regenerate", OutcomeFailed, time.Second)
		m.AddOrders(1)
		m.AddException("CollectionError")
		m.SetLevels(1)
	})
	assert.Nil(t, m.Registry())
}

func TestPushgatewayPusher_Push(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewRunMetrics()
	m.AddOrders(1)

	pusher := NewPushgatewayPusher(server.URL, "mrp", map[string]string{"facility": "F1"})
	require.NoError(t, pusher.Push(context.Background(), m))
	assert.Equal(t, "/metrics/job/mrp/facility/F1", gotPath)

	assert.Error(t, NewPushgatewayPusher("", "mrp", nil).Push(context.Background(), m))
}
