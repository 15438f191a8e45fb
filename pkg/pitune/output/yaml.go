package output

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ledpi/pitune/pkg/pitune/monitor"
)

// yamlOutput represents the full YAML output structure.
type yamlOutput struct {
	Report   *yamlReport   `yaml:"report,omitempty"`
	Snapshot *yamlSnapshot `yaml:"snapshot,omitempty"`
}

// yamlReport represents a tune report in YAML output.
type yamlReport struct {
	Started  time.Time  `yaml:"started"`
	Duration string     `yaml:"duration"`
	DryRun   bool       `yaml:"dry_run"`
	Results  []yamlStep `yaml:"results"`
	Withheld []string   `yaml:"withheld"`
}

// yamlStep represents a single step result in YAML output.
type yamlStep struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Outcome  string `yaml:"outcome"`
	Detail   string `yaml:"detail,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// yamlSnapshot represents a status snapshot in YAML output.
type yamlSnapshot struct {
	Timestamp time.Time   `yaml:"timestamp"`
	Hostname  string      `yaml:"hostname,omitempty"`
	Kernel    string      `yaml:"kernel,omitempty"`
	Cores     int         `yaml:"cores"`
	Governor  string      `yaml:"governor"`
	PerCore   []yamlCore  `yaml:"per_core,omitempty"`
	Memory    yamlMemory  `yaml:"memory"`
	Swap      yamlMemory  `yaml:"swap"`
	Pattern   string      `yaml:"process_pattern"`
	Process   yamlProcess `yaml:"process"`
}

// yamlCore represents per-core utilization in YAML output.
type yamlCore struct {
	Core    int     `yaml:"core"`
	Percent float64 `yaml:"percent"`
}

// yamlMemory represents memory usage in YAML output.
type yamlMemory struct {
	TotalBytes  uint64  `yaml:"total_bytes"`
	UsedBytes   uint64  `yaml:"used_bytes"`
	UsedPercent float64 `yaml:"used_percent"`
}

// yamlProcess represents the LED controller process in YAML output.
type yamlProcess struct {
	Status     string  `yaml:"status"`
	PID        int32   `yaml:"pid,omitempty"`
	CPUPercent float64 `yaml:"cpu_percent,omitempty"`
	MemoryMB   float64 `yaml:"memory_mb,omitempty"`
}

// YAMLFormatter formats output as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	output := f.buildOutput(r)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return err
	}
	return encoder.Close()
}

// buildOutput converts Result to the YAML output structure.
func (f *YAMLFormatter) buildOutput(r *Result) yamlOutput {
	var out yamlOutput

	if r.Report != nil {
		results := make([]yamlStep, len(r.Report.Results))
		for i, res := range r.Report.Results {
			results[i] = yamlStep{
				Name:     res.Name,
				Category: res.Category,
				Outcome:  string(res.Outcome),
				Detail:   res.Detail,
				Error:    res.Err,
			}
		}
		out.Report = &yamlReport{
			Started:  r.Report.Started,
			Duration: r.Report.Duration.String(),
			DryRun:   r.Report.DryRun,
			Results:  results,
			Withheld: r.Report.Withheld,
		}
	}

	if r.Snapshot != nil {
		out.Snapshot = f.buildSnapshot(r.Snapshot)
	}

	return out
}

// buildSnapshot converts a monitor snapshot to its YAML form.
func (f *YAMLFormatter) buildSnapshot(snap *monitor.Snapshot) *yamlSnapshot {
	perCore := make([]yamlCore, len(snap.PerCore))
	for i, core := range snap.PerCore {
		perCore[i] = yamlCore{Core: core.Core, Percent: core.Percent}
	}

	return &yamlSnapshot{
		Timestamp: snap.Timestamp,
		Hostname:  snap.Hostname,
		Kernel:    snap.Kernel,
		Cores:     snap.Cores,
		Governor:  snap.Governor,
		PerCore:   perCore,
		Memory:    yamlMemory(snap.Memory),
		Swap:      yamlMemory(snap.Swap),
		Pattern:   snap.ProcessPattern,
		Process: yamlProcess{
			Status:     string(snap.Process.Status),
			PID:        snap.Process.PID,
			CPUPercent: snap.Process.CPUPercent,
			MemoryMB:   snap.Process.MemoryMB,
		},
	}
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
