// Package metrics exports the slide machine's progress as Prometheus
// metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/go-drift/slideclock/pkg/logger"
	"github.com/go-drift/slideclock/pkg/slide"
)

var log = logger.New(logrus.StandardLogger(), "metrics")

const namespace = "slideclock"

// Collector implements slide.Observer with Prometheus counters.
type Collector struct {
	TicksDropped  prometheus.Counter
	Stages        *prometheus.CounterVec
	Cycles        prometheus.Counter
	Interruptions prometheus.Counter
	CurrentStage  prometheus.Gauge
	FrameSeconds  prometheus.Histogram
	SlowFrames    prometheus.Counter
}

// NewCollector creates the collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		TicksDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_dropped_total",
			Help:      "Ticks that arrived while a transition was in flight.",
		}),
		Stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_entered_total",
			Help:      "Stages entered after a completed motion.",
		}, []string{"stage"}),
		Cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_completed_total",
			Help:      "Slide cycles that returned to rest.",
		}),
		Interruptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_interrupted_total",
			Help:      "Motions that completed unfinished.",
		}),
		CurrentStage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage",
			Help:      "Current stage (0 resting, 1 departing, 2 swapped, 3 arriving).",
		}),
		FrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time spent in each display loop frame.",
			Buckets:   []float64{.001, .002, .005, .01, .02, .05, .1},
		}),
		SlowFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slow_frames_total",
			Help:      "Frames that took longer than the frame interval.",
		}),
	}
	reg.MustRegister(c.TicksDropped, c.Stages, c.Cycles, c.Interruptions, c.CurrentStage, c.FrameSeconds, c.SlowFrames)
	return c
}

func (c *Collector) TickDropped(slide.Stage) {
	c.TicksDropped.Inc()
}

func (c *Collector) StageEntered(stage slide.Stage) {
	c.Stages.WithLabelValues(stage.String()).Inc()
	c.CurrentStage.Set(float64(stage))
	if stage == slide.Resting {
		c.Cycles.Inc()
	}
}

func (c *Collector) Interrupted(slide.Stage) {
	c.Interruptions.Inc()
}

// ObserveFrame records one loop frame. It matches engine.Options.OnFrame.
func (c *Collector) ObserveFrame(took time.Duration, slow bool) {
	c.FrameSeconds.Observe(took.Seconds())
	if slow {
		c.SlowFrames.Inc()
	}
}

// Server serves /metrics and /healthz.
type Server struct {
	srv *http.Server
}

// NewServer returns a server for addr exposing the metrics in gatherer.
func NewServer(addr string, gatherer prometheus.Gatherer) *Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start listens in the background. Listen errors other than a clean
// shutdown are logged.
func (s *Server) Start() {
	go func() {
		log.WithField("addr", s.srv.Addr).Info("serving metrics")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
