// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"gitlab.com/tozd/go/errors"
)

// 📊 Recorder counts what a batch run did.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	files   *prometheus.CounterVec
	backups *prometheus.CounterVec
	removed prometheus.Counter
}

// 🏭 New creates a recorder with its own registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deemoji_files_total",
				Help: "Total number of files processed, by result.",
			},
			[]string{"result"}, // cleaned, unchanged, preview, skipped, failed
		),
		backups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deemoji_backups_total",
				Help: "Total number of backup attempts, by result.",
			},
			[]string{"result"}, // success, error
		),
		removed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "deemoji_emojis_removed_total",
				Help: "Total number of emoji matches removed.",
			},
		),
	}

	r.registry.MustRegister(r.files, r.backups, r.removed)
	return r
}

// ObserveFile counts one processed file
func (r *Recorder) ObserveFile(result string) {
	if r == nil {
		return
	}
	r.files.WithLabelValues(result).Inc()
}

// ObserveBackup counts one backup attempt
func (r *Recorder) ObserveBackup(err error) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	r.backups.WithLabelValues(result).Inc()
}

// ObserveRemoved adds n removed matches
func (r *Recorder) ObserveRemoved(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.removed.Add(float64(n))
}

// Gatherer exposes the underlying registry
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// 📝 WriteTextfile writes the metrics in the node exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
