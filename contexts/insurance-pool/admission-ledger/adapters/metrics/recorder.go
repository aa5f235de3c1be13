package metricsadapter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder publishes ledger operation outcomes and registry gauges.
type Recorder struct {
	operations     *prometheus.CounterVec
	airlines       prometheus.Gauge
	fundedAirlines prometheus.Gauge
}

// NewRecorder registers the ledger collectors on registry. A nil registry
// yields a nil Recorder, which records nothing.
func NewRecorder(registry prometheus.Registerer) *Recorder {
	if registry == nil {
		return nil
	}
	factory := promauto.With(registry)
	return &Recorder{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flightsurety_admission_operations_total",
			Help: "Admission ledger operations by outcome",
		}, []string{"operation", "outcome"}),
		airlines: factory.NewGauge(prometheus.GaugeOpts{
			Name: "flightsurety_admission_airlines",
			Help: "Known airline identities, pending or registered",
		}),
		fundedAirlines: factory.NewGauge(prometheus.GaugeOpts{
			Name: "flightsurety_admission_funded_airlines",
			Help: "Airlines whose contributions reached the funding threshold",
		}),
	}
}

func (r *Recorder) ObserveOperation(operation string, outcome string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(operation, outcome).Inc()
}

func (r *Recorder) ObserveCounts(numAirlines uint64, numFundedAirlines uint64) {
	if r == nil {
		return
	}
	r.airlines.Set(float64(numAirlines))
	r.fundedAirlines.Set(float64(numFundedAirlines))
}
