package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"voxel-game/internal/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voxel"

// Stats is a point-in-time view of engine state published as gauges.
type Stats struct {
	ChunksTotal    int
	ChunksLoaded   int
	ChunksVisible  int
	QueuedLoads    int
	QueuedUnloads  int
	MeshesResident int
	MeshesPending  int
}

// Metrics owns a private registry so several engines (or tests) can coexist
// in one process.
type Metrics struct {
	registry *prometheus.Registry

	ChunksGenerated prometheus.Counter
	MeshesBuilt     prometheus.Counter
	MeshesCancelled prometheus.Counter
	BlocksEdited    prometheus.Counter
	TicksTotal      prometheus.Counter
	chunksTotal     prometheus.Gauge
	chunksLoaded    prometheus.Gauge
	chunksVisible   prometheus.Gauge
	queuedLoads     prometheus.Gauge
	queuedUnloads   prometheus.Gauge
	meshesResident  prometheus.Gauge
	meshesPending   prometheus.Gauge
	spanSeconds     *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	m := &Metrics{
		registry:        prometheus.NewRegistry(),
		ChunksGenerated: counter("chunks_generated_total", "Chunks that went through terrain generation."),
		MeshesBuilt:     counter("meshes_built_total", "Chunk meshes built by the worker pool."),
		MeshesCancelled: counter("mesh_tasks_cancelled_total", "Mesh tasks superseded or dropped before their result was used."),
		BlocksEdited:    counter("blocks_edited_total", "Blocks broken or placed by the player."),
		TicksTotal:      counter("ticks_total", "Simulation ticks run."),
		chunksTotal:     gauge("chunks", "Chunks held in memory."),
		chunksLoaded:    gauge("chunks_loaded", "Chunks in the simple-loaded state."),
		chunksVisible:   gauge("chunks_visible", "Chunks in the visible state."),
		queuedLoads:     gauge("chunk_load_queue", "Positions waiting to be loaded."),
		queuedUnloads:   gauge("chunk_unload_queue", "Positions waiting to be unloaded."),
		meshesResident:  gauge("meshes_resident", "Chunk meshes currently held."),
		meshesPending:   gauge("meshes_pending", "Mesh tasks in flight."),
		spanSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "span_seconds",
			Help:      "Duration of profiled engine operations.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
		}, []string{"span"}),
	}

	m.registry.MustRegister(
		m.ChunksGenerated, m.MeshesBuilt, m.MeshesCancelled, m.BlocksEdited, m.TicksTotal,
		m.chunksTotal, m.chunksLoaded, m.chunksVisible, m.queuedLoads, m.queuedUnloads,
		m.meshesResident, m.meshesPending, m.spanSeconds,
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSpan records one profiled span. It matches profiling.SetObserver.
func (m *Metrics) ObserveSpan(name string, d time.Duration) {
	m.spanSeconds.WithLabelValues(name).Observe(d.Seconds())
}

// MeshBuilt counts a mesh whose result was accepted.
func (m *Metrics) MeshBuilt() { m.MeshesBuilt.Inc() }

// MeshDiscarded counts a mesh task that was cancelled or superseded.
func (m *Metrics) MeshDiscarded() { m.MeshesCancelled.Inc() }

// Update publishes a stats snapshot.
func (m *Metrics) Update(s Stats) {
	m.chunksTotal.Set(float64(s.ChunksTotal))
	m.chunksLoaded.Set(float64(s.ChunksLoaded))
	m.chunksVisible.Set(float64(s.ChunksVisible))
	m.queuedLoads.Set(float64(s.QueuedLoads))
	m.queuedUnloads.Set(float64(s.QueuedUnloads))
	m.meshesResident.Set(float64(s.MeshesResident))
	m.meshesPending.Set(float64(s.MeshesPending))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logging.Info("Prometheus /metrics available at %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
