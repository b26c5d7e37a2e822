package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traffic_assistant_answers_total",
			Help: "Total answers produced, by mode and intent",
		},
		[]string{"mode", "intent"},
	)

	GatewayCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traffic_assistant_gateway_calls_total",
			Help: "Total gateway calls, by outcome",
		},
		[]string{"outcome"},
	)

	GatewayDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "traffic_assistant_gateway_duration_seconds",
			Help:    "Gateway call duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15},
		},
	)

	RequestErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traffic_assistant_request_errors_total",
			Help: "Total requests that ended in an error, by kind",
		},
		[]string{"kind"},
	)

	DatasetRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "traffic_assistant_dataset_rows",
			Help: "Rows seen in the dataset by the last audit run",
		},
		[]string{"table"},
	)

	DatasetAnomalies = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "traffic_assistant_dataset_anomalies",
			Help: "Anomalies found by the last dataset audit run, by check",
		},
		[]string{"check"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(AnswersTotal)
		prometheus.MustRegister(GatewayCallsTotal)
		prometheus.MustRegister(GatewayDuration)
		prometheus.MustRegister(RequestErrorsTotal)
		prometheus.MustRegister(DatasetRows)
		prometheus.MustRegister(DatasetAnomalies)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
