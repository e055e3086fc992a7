package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_runs_total",
		Help: "Upload pipeline runs by outcome",
	}, []string{"outcome"})

	pipelineStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Time spent in each upload pipeline stage",
		Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"stage"})

	pipelinesInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pipelines_in_flight",
		Help: "Upload pipelines currently running",
	})

	chatTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_turns_total",
		Help: "Chat exchanges by outcome",
	}, []string{"outcome"})

	llmLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Latency of LLM provider calls",
		Buckets: []float64{.25, .5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"provider", "outcome"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of requests labelled by route and status",
	}, []string{"route", "status"})
)

// IncPipelineRun counts a finished pipeline run. outcome is "succeeded" or "failed".
func IncPipelineRun(outcome string) {
	pipelineRuns.WithLabelValues(outcome).Inc()
}

// ObserveStage records how long a pipeline stage took.
func ObserveStage(stage string, d time.Duration) {
	pipelineStageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// PipelineStarted marks a pipeline as in flight.
func PipelineStarted() { pipelinesInFlight.Inc() }

// PipelineFinished releases an in-flight pipeline.
func PipelineFinished() { pipelinesInFlight.Dec() }

// IncChatTurn counts a chat exchange.
func IncChatTurn(outcome string) {
	chatTurns.WithLabelValues(outcome).Inc()
}

// ObserveLLM records an LLM call.
func ObserveLLM(provider, outcome string, d time.Duration) {
	llmLatency.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

// IncHTTPRequest counts a served request.
func IncHTTPRequest(route, status string) {
	httpRequests.WithLabelValues(route, status).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
