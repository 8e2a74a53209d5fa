package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vortex-fintech/geophone/phone"
)

const namespace = "geophone"

// Outcome label values.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidFormat = "invalid_format"
	OutcomeTooShort      = "too_short"
	OutcomeNotFound      = "not_found"
	OutcomeError         = "error"
	OutcomeUnparseable   = "unparseable"
)

const noProvider = "none"

// Collector holds resolver metrics. A nil *Collector records nothing.
type Collector struct {
	lookups   *prometheus.CounterVec
	formats   *prometheus.CounterVec
	providers prometheus.Gauge
	ranges    prometheus.Gauge
}

func NewCollector() *Collector {
	return &Collector{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Provider identifications by provider and outcome.",
		}, []string{"provider", "outcome"}),
		formats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "formats_total",
			Help:      "Format requests by style and outcome.",
		}, []string{"style", "outcome"}),
		providers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "range_table_providers",
			Help:      "Providers in the loaded range table.",
		}),
		ranges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "range_table_ranges",
			Help:      "Ranges in the loaded range table.",
		}),
	}
}

// Register adds every collector to reg. It fits Options.Register.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.lookups, c.formats, c.providers, c.ranges} {
		if err := registerOnce(reg, col); err != nil {
			return err
		}
	}
	return nil
}

// ObserveLookup counts one Identify call.
func (c *Collector) ObserveLookup(provider string, err error) {
	if c == nil {
		return
	}
	if provider == "" {
		provider = noProvider
	}
	c.lookups.WithLabelValues(provider, Outcome(err)).Inc()
}

// ObserveFormat counts one Format call.
func (c *Collector) ObserveFormat(style phone.Style, ok bool) {
	if c == nil {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeUnparseable
	}
	c.formats.WithLabelValues(string(style), outcome).Inc()
}

// SetTable publishes the size of the active range table.
func (c *Collector) SetTable(t phone.Table) {
	if c == nil {
		return
	}
	c.providers.Set(float64(len(t)))
	c.ranges.Set(float64(t.RangeCount()))
}

// Outcome maps a resolver error to its label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, phone.ErrInvalidFormat):
		return OutcomeInvalidFormat
	case errors.Is(err, phone.ErrTooShort):
		return OutcomeTooShort
	case errors.Is(err, phone.ErrProviderNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
