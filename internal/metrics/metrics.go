// Package metrics exposes prometheus counters for the scan and marking
// pipeline. Counters register on the default registry; an embedding process
// decides whether and where to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesSampled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rollcall_frames_sampled_total",
		Help: "Camera frames sampled by the capture loop.",
	})

	DecodeMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rollcall_decode_misses_total",
		Help: "Sampled frames that did not yield an attendance token, by reason.",
	}, []string{"reason"})

	ScansResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rollcall_scans_resolved_total",
		Help: "Capture loop runs that resolved to a valid attendance token.",
	})

	MarksAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rollcall_marks_accepted_total",
		Help: "Attendance records accepted and persisted.",
	})

	MarksRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rollcall_marks_rejected_total",
		Help: "Attendance marks rejected, by reason.",
	}, []string{"reason"})
)
