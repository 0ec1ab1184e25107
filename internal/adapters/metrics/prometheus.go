package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"eventattendance/internal/domain"
)

const namespace = "eventattendance"

// Prometheus records attendance counters on a registry.
type Prometheus struct {
	ticketsIssued *prometheus.CounterVec
	checkIns      *prometheus.CounterVec
	scanPolls     *prometheus.CounterVec
}

var _ domain.Metrics = (*Prometheus)(nil)

// NewPrometheus registers the counters on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		ticketsIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tickets_issued_total",
				Help:      "Tickets issued per event",
			},
			[]string{"event_id"},
		),
		checkIns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checkins_total",
				Help:      "Check-in attempts by protocol and outcome",
			},
			[]string{"protocol", "outcome"},
		),
		scanPolls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scan_status_polls_total",
				Help:      "Scan status polls by returned status",
			},
			[]string{"status"},
		),
	}
}

func (p *Prometheus) TicketIssued(eventID string) {
	p.ticketsIssued.WithLabelValues(eventID).Inc()
}

func (p *Prometheus) CheckIn(protocol, outcome string) {
	p.checkIns.WithLabelValues(protocol, outcome).Inc()
}

func (p *Prometheus) ScanPolled(status string) {
	p.scanPolls.WithLabelValues(status).Inc()
}

type noop struct{}

// NewNoop returns Metrics that discards everything.
func NewNoop() domain.Metrics { return noop{} }

func (noop) TicketIssued(string)    {}
func (noop) CheckIn(string, string) {}
func (noop) ScanPolled(string)      {}
