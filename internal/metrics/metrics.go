package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PurchasesTotal counts checkout actions by result (accepted, rejected).
	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "purchases_total",
			Help:      "The total number of purchase submissions",
		},
		[]string{"result"},
	)

	// ValidationFailures counts rejected purchases by reason.
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "validation_failures_total",
			Help:      "The total number of rejected purchases",
		},
		[]string{"reason"},
	)

	// TicketsIssued counts seats that reached the success notification.
	TicketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "tickets_issued_total",
			Help:      "The total number of issued tickets",
		},
		[]string{"movie"},
	)

	// SeatStepFailures counts per-seat failures by step (generate, persist, render, display, publish).
	SeatStepFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "seat_step_failures_total",
			Help:      "The total number of failed per-seat steps",
		},
		[]string{"step"},
	)

	// BarcodeRenderDuration observes how long one barcode image takes to render.
	BarcodeRenderDuration = promauto.NewSummary(
		prometheus.SummaryOpts{
			Namespace:  "cinema",
			Name:       "barcode_render_duration_seconds",
			Help:       "Time spent rendering barcode images",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}
