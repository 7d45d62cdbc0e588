package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clockActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_clock_actions_total",
			Help: "Clock-in/out submissions by outcome.",
		},
		[]string{"action", "result"},
	)

	screenLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_screen_loads_total",
			Help: "Attendance screen state loads by outcome.",
		},
		[]string{"result"},
	)

	dataAnomaliesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "console_attendance_anomalies_total",
		Help: "Records rendered with a negative or unparseable duration.",
	})
)
