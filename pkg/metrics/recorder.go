/*
Copyright 2026 The Kubermatic Kubernetes Platform contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/


// Package metrics records the outcome and duration of every installer step
// in a private Prometheus registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lakehouse_installer"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Recorder collects step metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lastRun  *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Number of installer steps by mode, step and result.",
		}, []string{"mode", "step", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "How long in seconds an installer step took.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"mode", "step"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix timestamp of the last completed run by mode.",
		}, []string{"mode"}),
	}

	r.registry.MustRegister(r.steps, r.duration, r.lastRun)

	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}

	return r.registry
}

// ObserveStep records one step. Skipped steps are counted but their
// duration is not observed.
func (r *Recorder) ObserveStep(mode, step, result string, d time.Duration) {
	if r == nil {
		return
	}

	r.steps.WithLabelValues(mode, step, result).Inc()

	if result != ResultSkipped {
		r.duration.WithLabelValues(mode, step).Observe(d.Seconds())
	}
}

func (r *Recorder) ObserveRun(mode string, finished time.Time) {
	if r == nil {
		return
	}

	r.lastRun.WithLabelValues(mode).Set(float64(finished.Unix()))
}

// WriteToTextfile writes all metrics in the text exposition format, suitable
// for the node-exporter textfile collector.
func (r *Recorder) WriteToTextfile(filename string) error {
	if r == nil || filename == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(filename, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", filename, err)
	}

	return nil
}
