// Package monitor collects a point-in-time performance snapshot of the host
// and the LED controller process. Collection is best-effort: fields that
// cannot be read are reported as unknown rather than failing the snapshot.
package monitor

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/ledpi/pitune/pkg/pitune/logging"
	"github.com/ledpi/pitune/pkg/pitune/sysfs"
)

// GovernorUnknown is reported when the governor control cannot be read.
const GovernorUnknown = "unknown"

// ProcessStatus classifies the LED controller process lookup.
type ProcessStatus string

// Process lookup results.
const (
	StatusRunning    ProcessStatus = "running"
	StatusNotRunning ProcessStatus = "not running"
	StatusUnknown    ProcessStatus = "unknown"
)

// ProcessInfo describes the matched LED controller process.
type ProcessInfo struct {
	Status     ProcessStatus `json:"status"`
	PID        int32         `json:"pid,omitempty"`
	CPUPercent float64       `json:"cpu_percent,omitempty"`
	MemoryMB   float64       `json:"memory_mb,omitempty"`
}

// CoreUsage is the utilization of a single core at collection time.
type CoreUsage struct {
	Core    int     `json:"core"`
	Percent float64 `json:"percent"`
}

// MemoryInfo summarizes virtual memory or swap usage.
type MemoryInfo struct {
	TotalBytes  uint64  `json:"total_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// Snapshot is a live report computed at invocation time, never cached.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	Hostname string `json:"hostname,omitempty"`
	Kernel   string `json:"kernel,omitempty"`

	Cores    int    `json:"cores"`
	Governor string `json:"governor"`

	PerCore []CoreUsage `json:"per_core,omitempty"`

	Memory MemoryInfo `json:"memory"`
	Swap   MemoryInfo `json:"swap"`

	ProcessPattern string      `json:"process_pattern"`
	Process        ProcessInfo `json:"process"`
}

// Options configure snapshot collection.
type Options struct {
	// SysfsPath is the CPU device tree root. Empty means sysfs.DefaultRoot.
	SysfsPath string

	// ProcessPattern is the regular expression matched against process
	// command lines to find the LED controller.
	ProcessPattern string

	// SampleInterval is the window for per-core utilization sampling.
	// Zero means 500ms.
	SampleInterval time.Duration
}

// Collect gathers a snapshot. Only an invalid process pattern or a cancelled
// context produce an error; unreadable metrics degrade to unknowns.
func Collect(ctx context.Context, opts Options) (*Snapshot, error) {
	log := logging.Get("monitor")

	pattern, err := regexp.Compile(opts.ProcessPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid process pattern %q: %w", opts.ProcessPattern, err)
	}

	root := opts.SysfsPath
	if root == "" {
		root = sysfs.DefaultRoot
	}

	interval := opts.SampleInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	snap := &Snapshot{
		Timestamp:      time.Now(),
		Governor:       GovernorUnknown,
		ProcessPattern: opts.ProcessPattern,
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		snap.Hostname = info.Hostname
		snap.Kernel = info.KernelVersion
	} else {
		log.Warn("host info unavailable", "error", err)
	}

	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		snap.Cores = cores
	} else {
		log.Warn("core count unavailable", "error", err)
	}

	if gov, err := sysfs.ReadGovernor(root, 0); err == nil {
		snap.Governor = gov
	} else {
		log.Debug("governor unreadable", "error", err)
	}

	if perCore, err := cpu.PercentWithContext(ctx, interval, true); err == nil {
		snap.PerCore = make([]CoreUsage, len(perCore))
		for i, pct := range perCore {
			snap.PerCore[i] = CoreUsage{Core: i, Percent: pct}
		}
	} else {
		log.Warn("per-core utilization unavailable", "error", err)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.Memory = MemoryInfo{
			TotalBytes:  vm.Total,
			UsedBytes:   vm.Used,
			UsedPercent: vm.UsedPercent,
		}
	} else {
		log.Warn("memory usage unavailable", "error", err)
	}

	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		snap.Swap = MemoryInfo{
			TotalBytes:  swap.Total,
			UsedBytes:   swap.Used,
			UsedPercent: swap.UsedPercent,
		}
	} else {
		log.Warn("swap usage unavailable", "error", err)
	}

	snap.Process = findProcess(ctx, pattern, log)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return snap, nil
}

// findProcess locates the first process whose command line matches pattern.
// Lookup failures report unknown, not an error.
func findProcess(ctx context.Context, pattern *regexp.Regexp, log *logging.Logger) ProcessInfo {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		log.Warn("process listing failed", "error", err)
		return ProcessInfo{Status: StatusUnknown}
	}

	for _, p := range procs {
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			continue
		}
		if !pattern.MatchString(cmdline) {
			continue
		}

		info := ProcessInfo{Status: StatusRunning, PID: p.Pid}

		if pct, err := p.CPUPercentWithContext(ctx); err == nil {
			info.CPUPercent = pct
		}
		if memInfo, err := p.MemoryInfoWithContext(ctx); err == nil && memInfo != nil {
			info.MemoryMB = float64(memInfo.RSS) / (1024 * 1024)
		}

		return info
	}

	return ProcessInfo{Status: StatusNotRunning}
}
