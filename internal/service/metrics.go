package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "pulse"

var (
	sectionsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "sections_generated_total",
		Help:      "Draft sections generated, by provider and result.",
	}, []string{"provider", "result"})

	sectionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "section_generation_seconds",
		Help:      "Time spent drafting one section, archive search included.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	}, []string{"provider"})

	urlsShortened = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "urls_shortened_total",
		Help:      "URLs sent to the shortener; result is shortened or kept.",
	}, []string{"result"})

	exportsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "exports_built_total",
		Help:      "Newsletter exports rendered, by format.",
	}, []string{"format"})

	imagesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "images_generated_total",
		Help:      "Cover images requested, by result.",
	}, []string{"result"})

	discoveryCandidates = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "discovery_candidates",
		Help:      "Candidate stories gathered by the last discovery refresh, by source kind.",
	}, []string{"source"})
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
