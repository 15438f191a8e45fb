package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/ledpi/pitune/pkg/pitune/monitor"
	"github.com/ledpi/pitune/pkg/pitune/tuner"
)

// PlainFormatter formats output as simple tab-separated text.
// It produces plain output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	if r.Report != nil {
		if err := f.formatReport(w, r.Report); err != nil {
			return err
		}
	}
	if r.Snapshot != nil {
		if err := f.formatSnapshot(w, r.Snapshot); err != nil {
			return err
		}
	}
	return nil
}

// formatReport writes a tune report as an aligned table.
func (f *PlainFormatter) formatReport(w *bytes.Buffer, report *tuner.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := tw.Write([]byte("STEP\tOUTCOME\tDETAIL\n")); err != nil {
		return err
	}

	for _, res := range report.Results {
		detail := res.Detail
		if res.Err != "" {
			detail = res.Err
		}
		line := res.Name + "\t" + string(res.Outcome) + "\t" + detail + "\n"
		if _, err := tw.Write([]byte(line)); err != nil {
			return err
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	applied, unchanged, skipped, failed := report.Counts()
	fmt.Fprintf(w, "\n%d applied, %d unchanged, %d skipped, %d failed\n",
		applied, unchanged, skipped, failed)
	fmt.Fprintf(w, "never touched: %s\n", strings.Join(report.Withheld, "; "))
	return nil
}

// formatSnapshot writes a status snapshot as key-value lines.
func (f *PlainFormatter) formatSnapshot(w *bytes.Buffer, snap *monitor.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"time", snap.Timestamp.Format("2006-01-02 15:04:05")},
		{"hostname", snap.Hostname},
		{"kernel", snap.Kernel},
		{"cores", fmt.Sprintf("%d", snap.Cores)},
		{"governor", snap.Governor},
	}
	for _, core := range snap.PerCore {
		rows = append(rows, [2]string{
			fmt.Sprintf("core%d", core.Core),
			fmt.Sprintf("%.1f%%", core.Percent),
		})
	}
	rows = append(rows,
		[2]string{"memory", formatMemory(snap.Memory)},
		[2]string{"swap", formatMemory(snap.Swap)},
		[2]string{"process", f.processLine(snap.Process)},
	)

	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		if _, err := tw.Write([]byte(row[0] + "\t" + row[1] + "\n")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// processLine renders the process field without styling.
func (f *PlainFormatter) processLine(p monitor.ProcessInfo) string {
	if p.Status == monitor.StatusRunning {
		return fmt.Sprintf("running pid=%d cpu=%.1f%% mem=%.1fMB", p.PID, p.CPUPercent, p.MemoryMB)
	}
	return string(p.Status)
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
