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
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.ObserveFile("cleaned")
	r.ObserveFile("cleaned")
	r.ObserveFile("unchanged")
	r.ObserveBackup(nil)
	r.ObserveBackup(errors.New("disk full"))
	r.ObserveRemoved(5)
	r.ObserveRemoved(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.files.WithLabelValues("cleaned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.files.WithLabelValues("unchanged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.backups.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.backups.WithLabelValues("error")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.removed))

	path := filepath.Join(t.TempDir(), "deemoji.prom")
	require.NoError(t, r.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `deemoji_files_total{result="cleaned"} 2`)
	assert.Contains(t, string(content), `deemoji_emojis_removed_total 5`)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.ObserveFile("cleaned")
		r.ObserveBackup(nil)
		r.ObserveRemoved(3)
	})
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "unused.prom")))
}
