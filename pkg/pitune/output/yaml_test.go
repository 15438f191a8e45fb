package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestYAMLFormatter_Report(t *testing.T) {
	formatter := &YAMLFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, &Result{Report: sampleReport()})
	require.NoError(t, err)

	var parsed yamlOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &parsed))

	require.NotNil(t, parsed.Report)
	assert.Nil(t, parsed.Snapshot)

	require.Len(t, parsed.Report.Results, 3)
	assert.Equal(t, "cpu-governor", parsed.Report.Results[0].Name)
	assert.Equal(t, "applied", parsed.Report.Results[0].Outcome)
	assert.Contains(t, parsed.Report.Results[2].Error, "permission denied")
	assert.Len(t, parsed.Report.Withheld, 3)
}

func TestYAMLFormatter_Snapshot(t *testing.T) {
	formatter := &YAMLFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, &Result{Snapshot: sampleSnapshot()})
	require.NoError(t, err)

	var parsed yamlOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &parsed))

	require.NotNil(t, parsed.Snapshot)
	assert.Nil(t, parsed.Report)

	assert.Equal(t, "performance", parsed.Snapshot.Governor)
	assert.Equal(t, 4, parsed.Snapshot.Cores)
	require.Len(t, parsed.Snapshot.PerCore, 4)
	assert.Equal(t, 88.2, parsed.Snapshot.PerCore[2].Percent)
	assert.Equal(t, "running", parsed.Snapshot.Process.Status)
	assert.Equal(t, int32(1234), parsed.Snapshot.Process.PID)
}

func TestYAMLFormatter_DurationIsString(t *testing.T) {
	formatter := &YAMLFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, &Result{Report: sampleReport()})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "duration: 120ms")
}
