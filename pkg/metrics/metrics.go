package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Task pipeline metrics, labelled by task kind ("meal_plan", "store_scrape")
var (
	TasksEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plateplan",
		Subsystem: "tasks",
		Name:      "enqueued_total",
		Help:      "Number of tasks pushed onto the queue.",
	}, []string{"kind"})

	TasksCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plateplan",
		Subsystem: "tasks",
		Name:      "completed_total",
		Help:      "Number of tasks that finished successfully.",
	}, []string{"kind"})

	TasksFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plateplan",
		Subsystem: "tasks",
		Name:      "failed_total",
		Help:      "Number of tasks that terminated with a failure.",
	}, []string{"kind"})

	TaskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plateplan",
		Subsystem: "tasks",
		Name:      "duration_seconds",
		Help:      "Wall-clock task execution time.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 180, 300},
	}, []string{"kind"})
)
