package contract

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 调用类别标签
const (
	kindCall     = "call"
	kindTransact = "transact"
)

// 结果标签
const (
	resultOK       = "ok"
	resultError    = "error"
	resultReverted = "reverted"
)

// clientMetrics 合约调用指标
// function 标签只取ABI中存在的方法名，取值集合有界
type clientMetrics struct {
	invocations  *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	confirmation *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)
	return &clientMetrics{
		invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gateway",
				Subsystem: "contract",
				Name:      "invocations_total",
				Help:      "Total number of contract invocations",
			},
			[]string{"function", "kind", "result"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gateway",
				Subsystem: "contract",
				Name:      "invocation_duration_seconds",
				Help:      "Time spent in eth_call or transaction submission",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"function", "kind"},
		),
		confirmation: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gateway",
				Subsystem: "contract",
				Name:      "confirmation_duration_seconds",
				Help:      "Time from submission until the transaction is mined",
				Buckets:   []float64{1, 2, 5, 10, 15, 30, 60, 120, 300},
			},
			[]string{"function", "result"},
		),
	}
}

func (m *clientMetrics) observeInvocation(function, kind string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.invocations.WithLabelValues(function, kind, result).Inc()
	m.duration.WithLabelValues(function, kind).Observe(time.Since(start).Seconds())
}

func (m *clientMetrics) observeConfirmation(function, result string, start time.Time) {
	if m == nil {
		return
	}
	m.confirmation.WithLabelValues(function, result).Observe(time.Since(start).Seconds())
}
