package bvh

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const errTypeLabel = "error_type"

var (
	bvhBuildTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvh_build_total",
		Help: "The number of BVH trees built.",
	})

	bvhBuildErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvh_build_errors_total",
		Help: "The errors that occurred while building a BVH tree.",
	}, []string{
		errTypeLabel,
	})

	bvhBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "bvh_build_duration_seconds",
		Help: "The time to build a BVH tree.",
	})

	bvhBuildObjects = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bvh_build_objects",
		Help:    "The number of objects partitioned by a BVH build.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
)

func instrumentBuild(objects int, start time.Time) {
	bvhBuildTotal.Inc()
	bvhBuildObjects.Observe(float64(objects))
	bvhBuildDuration.Observe(time.Since(start).Seconds())
}

func instrumentBuildError(err error) {
	bvhBuildErrors.
		With(prometheus.Labels{
			errTypeLabel: errors.Type(err),
		}).
		Inc()
}
