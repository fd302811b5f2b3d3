package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "malabro_"

	ResultSuccess  = "success"
	ResultError    = "error"
	ResultRejected = "rejected"
)

var (
	registerOnce sync.Once

	reportTotal   *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec
	exportTotal   *prometheus.CounterVec

	notificationTotal *prometheus.CounterVec

	ordersCreated prometheus.Counter
)

// Init registers the application collectors with the default registry.
// Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		reportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "preparation_report_total",
				Help: "Delivery preparation reports generated, by result",
			},
			[]string{"result"},
		)
		reportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "preparation_report_latency_seconds",
				Help:    "Delivery preparation report latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "preparation_export_total",
				Help: "Delivery preparation exports, by format and result",
			},
			[]string{"format", "result"},
		)
		notificationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_total",
				Help: "Outbound notifications, by kind and result",
			},
			[]string{"kind", "result"},
		)
		ordersCreated = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "orders_created_total",
			Help: "Orders created at checkout",
		})

		prometheus.MustRegister(reportTotal, reportLatency, exportTotal, notificationTotal, ordersCreated)
	})
}

func ObserveReport(result string, elapsed time.Duration) {
	Init()
	reportTotal.WithLabelValues(result).Inc()
	reportLatency.WithLabelValues(result).Observe(elapsed.Seconds())
}

func ObserveExport(format, result string) {
	Init()
	exportTotal.WithLabelValues(format, result).Inc()
}

func ObserveNotification(kind, result string) {
	Init()
	notificationTotal.WithLabelValues(kind, result).Inc()
}

func OrderCreated() {
	Init()
	ordersCreated.Inc()
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}
