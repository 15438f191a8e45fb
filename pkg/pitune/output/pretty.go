package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ledpi/pitune/pkg/pitune/monitor"
	"github.com/ledpi/pitune/pkg/pitune/tuner"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	if r.Report != nil {
		f.formatReport(w, r.Report)
	}
	if r.Snapshot != nil {
		f.formatSnapshot(w, r.Snapshot)
	}
	return nil
}

// formatReport renders a tune run report.
func (f *PrettyFormatter) formatReport(w *bytes.Buffer, report *tuner.Report) {
	title := "Tune Report"
	if report.DryRun {
		title += " (dry run)"
	}

	header := []string{
		TitleStyle.Render(title),
		fmt.Sprintf("%s %s", LabelStyle.Render("Started:"), ValueStyle.Render(report.Started.Format("2006-01-02 15:04:05"))),
	}
	w.WriteString(HeaderBox.Render(strings.Join(header, "\n")))
	w.WriteString("\n")

	for _, res := range report.Results {
		line := fmt.Sprintf("%s %-16s %s",
			f.outcomeBadge(res.Outcome),
			res.Name,
			MutedStyle.Render(res.Detail))
		w.WriteString(line)
		w.WriteString("\n")
		if res.Err != "" {
			w.WriteString("  " + DangerStyle.Render(res.Err))
			w.WriteString("\n")
		}
	}

	applied, unchanged, skipped, failed := report.Counts()
	summary := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Summary:"),
			ValueStyle.Render(fmt.Sprintf("%d applied, %d unchanged, %d skipped, %d failed",
				applied, unchanged, skipped, failed))),
		LabelStyle.Render("Never touched: ") + MutedStyle.Render(strings.Join(report.Withheld, "; ")),
	}
	w.WriteString(FooterBox.Render(strings.Join(summary, "\n")))
	w.WriteString("\n")
}

// outcomeBadge returns a fixed-width styled outcome marker.
func (f *PrettyFormatter) outcomeBadge(o tuner.Outcome) string {
	padded := fmt.Sprintf("%-9s", o)
	switch o {
	case tuner.OutcomeApplied, tuner.OutcomeDryRun:
		return SuccessStyle.Render(padded)
	case tuner.OutcomeFailed:
		return DangerStyle.Render(padded)
	case tuner.OutcomeSkipped:
		return WarningStyle.Render(padded)
	default:
		return MutedStyle.Render(padded)
	}
}

// formatSnapshot renders a live status snapshot.
func (f *PrettyFormatter) formatSnapshot(w *bytes.Buffer, snap *monitor.Snapshot) {
	header := []string{
		TitleStyle.Render("System Status"),
		fmt.Sprintf("%s %s", LabelStyle.Render("Time:"), ValueStyle.Render(snap.Timestamp.Format("2006-01-02 15:04:05"))),
	}
	if snap.Hostname != "" {
		header = append(header, fmt.Sprintf("%s %s  %s",
			LabelStyle.Render("Host:"), ValueStyle.Render(snap.Hostname),
			MutedStyle.Render(snap.Kernel)))
	}
	w.WriteString(HeaderBox.Render(strings.Join(header, "\n")))
	w.WriteString("\n")

	w.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("Cores:"), ValueStyle.Render(fmt.Sprintf("%d", snap.Cores))))
	w.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("Governor:"), ValueStyle.Render(snap.Governor)))

	for _, core := range snap.PerCore {
		w.WriteString(fmt.Sprintf("  %s %s\n",
			LabelStyle.Render(fmt.Sprintf("core %d:", core.Core)),
			ValueStyle.Render(fmt.Sprintf("%5.1f%%", core.Percent))))
	}

	w.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("Memory:"), ValueStyle.Render(formatMemory(snap.Memory))))
	w.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("Swap:"), ValueStyle.Render(formatMemory(snap.Swap))))

	w.WriteString(f.formatProcess(snap))
	w.WriteString("\n")
}

// formatProcess renders the LED controller process line.
func (f *PrettyFormatter) formatProcess(snap *monitor.Snapshot) string {
	label := LabelStyle.Render("LED controller:")
	switch snap.Process.Status {
	case monitor.StatusRunning:
		return fmt.Sprintf("%s %s\n", label,
			SuccessStyle.Render(fmt.Sprintf("running (pid %d, %.1f%% cpu, %.1f MB)",
				snap.Process.PID, snap.Process.CPUPercent, snap.Process.MemoryMB)))
	case monitor.StatusNotRunning:
		return fmt.Sprintf("%s %s\n", label, WarningStyle.Render("not running"))
	default:
		return fmt.Sprintf("%s %s\n", label, MutedStyle.Render("unknown"))
	}
}

// formatMemory renders a usage summary like "312 MiB / 1.0 GiB (31.2%)".
func formatMemory(m monitor.MemoryInfo) string {
	if m.TotalBytes == 0 {
		return "none"
	}
	return fmt.Sprintf("%s / %s (%.1f%%)",
		humanize.IBytes(m.UsedBytes), humanize.IBytes(m.TotalBytes), m.UsedPercent)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
