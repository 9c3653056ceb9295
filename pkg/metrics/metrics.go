package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSucceeded = "succeeded"
	ResultFailed    = "failed"
	ResultCancelled = "cancelled"
)

var (
	SignatoryDeletes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signatory_deletes_total",
		Help: "Signatory deletions started from the editor, by result",
	}, []string{"result"})

	SignatorySaves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signatory_saves_total",
		Help: "Signatory saves started from the editor, by result",
	}, []string{"result"})

	RemoteLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "signatory_remote_request_seconds",
		Help:    "Latency of requests to the signatories resource",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"operation"})
)

// Register registers the signatory metrics on reg (or the default registerer if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{SignatoryDeletes, SignatorySaves, RemoteLatency} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
