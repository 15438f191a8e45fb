package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter_Report(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, &Result{Report: sampleReport()})
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	report, ok := parsed["report"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, parsed, "snapshot")

	results := report["results"].([]interface{})
	require.Len(t, results, 3)

	first := results[0].(map[string]interface{})
	assert.Equal(t, "cpu-governor", first["name"])
	assert.Equal(t, "applied", first["outcome"])

	withheld := report["withheld"].([]interface{})
	assert.Len(t, withheld, 3)
}

func TestJSONFormatter_Snapshot(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, &Result{Snapshot: sampleSnapshot()})
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	snapshot, ok := parsed["snapshot"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, parsed, "report")

	assert.Equal(t, "performance", snapshot["governor"])
	assert.Equal(t, float64(4), snapshot["cores"])

	process := snapshot["process"].(map[string]interface{})
	assert.Equal(t, "running", process["status"])
	assert.Equal(t, float64(1234), process["pid"])
}

func TestJSONFormatter_Indented(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, &Result{Report: sampleReport()})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "\n  \"report\"")
}
