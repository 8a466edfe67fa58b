package beacon

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics is optional; every method is safe on a nil receiver.
type metrics struct {
	sent      *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	completed *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &metrics{}
	var err error
	if m.sent, err = registerCounterVec(reg, prometheus.CounterOpts{
		Name: "beacon_messages_sent_total",
		Help: "Messages handed to the transport by message type",
	}, []string{"message_type"}); err != nil {
		return nil, err
	}
	if m.rejected, err = registerCounterVec(reg, prometheus.CounterOpts{
		Name: "beacon_messages_rejected_total",
		Help: "Messages suppressed by parameter validation",
	}, []string{"message_type", "param"}); err != nil {
		return nil, err
	}
	if m.completed, err = registerCounterVec(reg, prometheus.CounterOpts{
		Name: "beacon_messages_completed_total",
		Help: "Beacons whose request finished, delivered or not",
	}, []string{"message_type"}); err != nil {
		return nil, err
	}
	return m, nil
}

// registerCounterVec reuses a collector already registered under the same
// name, so several clients may share one registry.
func registerCounterVec(reg prometheus.Registerer, opts prometheus.CounterOpts, labels []string) (*prometheus.CounterVec, error) {
	vec := prometheus.NewCounterVec(opts, labels)
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("%s: %w", opts.Name, err)
	}
	return vec, nil
}

func (m *metrics) incSent(mt MessageType) {
	if m == nil {
		return
	}
	m.sent.WithLabelValues(string(mt)).Inc()
}

func (m *metrics) incRejected(mt MessageType, param string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(string(mt), param).Inc()
}

func (m *metrics) incCompleted(mt MessageType) {
	if m == nil {
		return
	}
	m.completed.WithLabelValues(string(mt)).Inc()
}
