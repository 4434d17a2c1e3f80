// Package metrics exposes prometheus collectors for the analysis
// pipeline. Runs are short-lived batches, so besides the optional
// /metrics listener the registry can be pushed to a Pushgateway when
// the run finishes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog/log"
)

var (
	selectedImages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixplot_analysis",
			Name:      "images_selected_total",
			Help:      "Images resolved into the selection, by pass",
		},
		[]string{"pass"},
	)

	gapPages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pixplot_analysis",
			Name:      "gap_pages_total",
			Help:      "Gap pages detected between selected pages",
		},
	)

	copies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixplot_analysis",
			Name:      "image_copies_total",
			Help:      "Image copies by destination and result",
		},
		[]string{"dest", "result"},
	)

	copyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pixplot_analysis",
			Name:      "image_copy_duration_seconds",
			Help:      "Duration of single image copies by destination",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"dest"},
	)

	validationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixplot_analysis",
			Name:      "validation_outcomes_total",
			Help:      "Audited sample images by validation outcome",
		},
		[]string{"outcome"},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(selectedImages, gapPages, copies, copyDuration, validationOutcomes)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

// Serve exposes /metrics on addr in the background.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Warn().Err(err).Str("addr", addr).Msg("metrics listener stopped")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")
}

// Push sends the default registry to a Pushgateway. Failures are the
// caller's to log; the pipeline never fails over metrics.
func Push(url, job string) error {
	return push.New(url, job).Gatherer(prometheus.DefaultGatherer).Push()
}

func AddSelected(pass string, n int) { selectedImages.WithLabelValues(pass).Add(float64(n)) }
func AddGaps(n int)                  { gapPages.Add(float64(n)) }
func AddOutcome(outcome string, n int) {
	validationOutcomes.WithLabelValues(outcome).Add(float64(n))
}

// ObserveCopy records one copy attempt.
func ObserveCopy(dest, result string, dur time.Duration) {
	copies.WithLabelValues(dest, result).Inc()
	copyDuration.WithLabelValues(dest).Observe(dur.Seconds())
}
