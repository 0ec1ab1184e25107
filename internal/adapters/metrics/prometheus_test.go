package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventattendance/internal/domain"
)

func TestPrometheus_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg)

	m.TicketIssued("ev-1")
	m.TicketIssued("ev-1")
	m.CheckIn(domain.ProtocolTicket, domain.OutcomeRecorded)
	m.CheckIn(domain.ProtocolBarcode, domain.OutcomeDuplicate)
	m.ScanPolled(domain.ScanStatusPending)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticketsIssued.WithLabelValues("ev-1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkIns.WithLabelValues("barcode", "duplicate")))

	expected := `
# HELP eventattendance_checkins_total Check-in attempts by protocol and outcome
# TYPE eventattendance_checkins_total counter
eventattendance_checkins_total{outcome="duplicate",protocol="barcode"} 1
eventattendance_checkins_total{outcome="recorded",protocol="ticket"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "eventattendance_checkins_total"))
}

func TestPrometheus_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg)
	assert.Panics(t, func() { NewPrometheus(reg) })
}
