package renderer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	renderFrameTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "render_frame_total",
		Help: "The number of rendered frames.",
	})

	renderFrameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "render_frame_duration_seconds",
		Help: "The time to render a frame.",
	})

	renderRaysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "render_rays_total",
		Help: "The number of traced ray segments.",
	}, []string{
		tracerLabel,
	})
)

const tracerLabel = "tracer"

func instrumentFrame(stats FrameStats) {
	renderFrameTotal.Inc()
	renderFrameDuration.Observe(stats.RenderTime.Seconds())
	for _, tr := range stats.Tracers {
		renderRaysTotal.
			With(prometheus.Labels{
				tracerLabel: tr.Id,
			}).
			Add(float64(tr.Rays))
	}
}
