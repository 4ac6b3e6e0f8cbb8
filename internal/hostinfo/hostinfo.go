// Package hostinfo inspects the machine's CPU and memory to produce the
// host profile that drives queue worker sizing.
package hostinfo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/go-units"

	"laraforge/internal/model"
)

// Profiler reads CPU and memory figures from a proc filesystem root.
// ProcRoot is injectable so tests can point it at fixture files.
type Profiler struct {
	ProcRoot string
}

func New() *Profiler {
	return &Profiler{ProcRoot: "/proc"}
}

// Profile inspects the host once and classifies it. Any read or parse
// failure is returned as an error: all downstream sizing depends on the
// profile, so callers treat failure as fatal.
func (p *Profiler) Profile() (model.HostProfile, error) {
	cores, err := p.cpuCores()
	if err != nil {
		return model.HostProfile{}, fmt.Errorf("detect cpu cores: %w", err)
	}

	totalKB, availableKB, err := p.memInfo()
	if err != nil {
		return model.HostProfile{}, fmt.Errorf("detect memory: %w", err)
	}

	totalGB := int(totalKB / (1024 * 1024))
	availableGB := int(availableKB / (1024 * 1024))

	tier, recommended := model.Classify(cores, totalGB)

	profile := model.HostProfile{
		CPUCores:             cores,
		TotalRAMGB:           totalGB,
		AvailableRAMGB:       availableGB,
		Tier:                 tier,
		RecommendedProcesses: recommended,
	}
	if err := profile.Validate(); err != nil {
		return model.HostProfile{}, err
	}
	return profile, nil
}

func (p *Profiler) cpuCores() (int, error) {
	f, err := os.Open(filepath.Join(p.ProcRoot, "cpuinfo"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cores := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "processor") {
			cores++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	if cores == 0 {
		return 0, fmt.Errorf("no processor entries in cpuinfo")
	}
	return cores, nil
}

// memInfo returns MemTotal and MemAvailable in kB. MemAvailable falls back
// to MemFree on kernels that predate it.
func (p *Profiler) memInfo() (total, available int64, err error) {
	f, err := os.Open(filepath.Join(p.ProcRoot, "meminfo"))
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	var free int64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		value, parseErr := strconv.ParseInt(fields[1], 10, 64)
		if parseErr != nil {
			continue
		}
		switch strings.TrimSuffix(fields[0], ":") {
		case "MemTotal":
			total = value
		case "MemAvailable":
			available = value
		case "MemFree":
			free = value
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, err
	}
	if total == 0 {
		return 0, 0, fmt.Errorf("MemTotal not found in meminfo")
	}
	if available == 0 {
		available = free
	}
	return total, available, nil
}

// Describe renders a profile for the operator.
func Describe(p model.HostProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CPU cores:           %d\n", p.CPUCores)
	fmt.Fprintf(&sb, "Total RAM:           %s\n", units.BytesSize(float64(p.TotalRAMGB)*units.GiB))
	fmt.Fprintf(&sb, "Available RAM:       %s\n", units.BytesSize(float64(p.AvailableRAMGB)*units.GiB))
	fmt.Fprintf(&sb, "Server tier:         %s\n", p.Tier)
	fmt.Fprintf(&sb, "Recommended workers: %d\n", p.RecommendedProcesses)
	return sb.String()
}
