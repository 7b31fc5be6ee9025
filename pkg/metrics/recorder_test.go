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


package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStep(t *testing.T) {
	r := NewRecorder()

	r.ObserveStep("setup", "bucket", ResultSuccess, 2*time.Second)
	r.ObserveStep("setup", "iam", ResultFailure, time.Second)
	r.ObserveStep("setup", "vpc-endpoint", ResultSkipped, 0)
	r.ObserveStep("setup", "bucket", ResultSuccess, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.steps.WithLabelValues("setup", "bucket", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("setup", "iam", ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("setup", "vpc-endpoint", ResultSkipped)))

	// skipped steps have no duration series
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))

	expected := `
# HELP lakehouse_installer_steps_total Number of installer steps by mode, step and result.
# TYPE lakehouse_installer_steps_total counter
lakehouse_installer_steps_total{mode="setup",result="failure",step="iam"} 1
lakehouse_installer_steps_total{mode="setup",result="skipped",step="vpc-endpoint"} 1
lakehouse_installer_steps_total{mode="setup",result="success",step="bucket"} 2
`
	require.NoError(t, testutil.CollectAndCompare(r.steps, strings.NewReader(expected)))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder

	r.ObserveStep("teardown", "bucket", ResultSuccess, time.Second)
	r.ObserveRun("teardown", time.Now())
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteToTextfile(filepath.Join(t.TempDir(), "metrics.prom")))
}

func TestWriteToTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveStep("teardown", "catalog-tables", ResultSuccess, 500*time.Millisecond)
	r.ObserveRun("teardown", time.Unix(1700000000, 0))

	filename := filepath.Join(t.TempDir(), "lakehouse.prom")
	require.NoError(t, r.WriteToTextfile(filename))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)

	assert.Contains(t, string(content), `lakehouse_installer_steps_total{mode="teardown",result="success",step="catalog-tables"} 1`)
	assert.Contains(t, string(content), `lakehouse_installer_last_run_timestamp_seconds{mode="teardown"} 1.7e+09`)

	assert.Error(t, r.WriteToTextfile(filepath.Join(t.TempDir(), "missing", "lakehouse.prom")))
}
