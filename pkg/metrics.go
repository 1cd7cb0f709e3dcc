package pysubscript

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry *prometheus.Registry

	// Counters
	filesChecked    prometheus.Counter
	sitesEvaluated  *prometheus.CounterVec
	illegalVerdicts *prometheus.CounterVec
	cacheHits       prometheus.Counter
	parseErrors     prometheus.Counter

	// Latency
	checkLatency prometheus.Summary
}

func newMetrics() *metrics {
	m := &metrics{
		filesChecked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "files_checked",
				Help: "number of files checked, including cache hits",
			},
		),
		sitesEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscript_sites_evaluated",
				Help: "number of subscript sites evaluated, by form",
			},
			[]string{"form"},
		),
		illegalVerdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscript_illegal_verdicts",
				Help: "number of subscripts found illegal for the target version, by form",
			},
			[]string{"form"},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "result_cache_hits",
				Help: "number of files whose diagnostics came from the result cache",
			},
		),
		parseErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "parse_errors",
				Help: "number of files or forward references that failed to parse",
			},
		),
		checkLatency: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Name: "check_latency_ns",
				Help: "latency to check a single file",
			},
		),
	}
	m.registry = prometheus.NewPedanticRegistry()
	reg := m.registry

	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	reg.MustRegister(prometheus.NewGoCollector())

	reg.MustRegister(m.filesChecked)
	reg.MustRegister(m.sitesEvaluated)
	reg.MustRegister(m.illegalVerdicts)
	reg.MustRegister(m.cacheHits)
	reg.MustRegister(m.parseErrors)
	reg.MustRegister(m.checkLatency)
	return m
}
