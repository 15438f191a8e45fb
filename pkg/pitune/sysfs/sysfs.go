// Package sysfs reads and writes per-core CPU frequency scaling controls
// under a sysfs-style tree. The tree root is a parameter everywhere so tests
// can point it at a fake hierarchy.
package sysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultRoot is the kernel's CPU device tree.
const DefaultRoot = "/sys/devices/system/cpu"

// ListCPUs enumerates the core indexes under root (the cpu0, cpu1, ...
// directories). Entries like cpufreq or cpuidle are ignored.
func ListCPUs(root string) ([]int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading cpu tree %s: %w", root, err)
	}

	cpus := make([]int, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "cpu") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(name, "cpu"))
		if err != nil {
			continue
		}
		cpus = append(cpus, id)
	}

	sort.Ints(cpus)
	return cpus, nil
}

// GovernorPath returns the scaling_governor control file for a core.
func GovernorPath(root string, cpu int) string {
	return filepath.Join(root, "cpu"+strconv.Itoa(cpu), "cpufreq", "scaling_governor")
}

// ReadGovernor returns the current governor of a core.
func ReadGovernor(root string, cpu int) (string, error) {
	data, err := os.ReadFile(GovernorPath(root, cpu))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteGovernor sets the governor of a core. The kernel applies the value on
// write; no truncation or newline handling is needed beyond a single token.
func WriteGovernor(root string, cpu int, mode string) error {
	path := GovernorPath(root, cpu)
	if err := os.WriteFile(path, []byte(mode+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing governor for cpu%d: %w", cpu, err)
	}
	return nil
}

// Writable reports whether the calling process may write the given control
// file. Cores whose governor is not writable are skipped, not failed.
func Writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

// Exists reports whether a core exposes a governor control at all.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
