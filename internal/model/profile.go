// Package model defines the data structures shared by the laraforge
// provisioning pipeline: the host profile, driver selection, queue plan,
// and the session threaded through every step.
package model

import "fmt"

// Tier is the coarse host-capacity classification used to pick default
// queue worker concurrency.
type Tier string

const (
	TierBasic  Tier = "basic"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

func (t Tier) Valid() bool {
	switch t {
	case TierBasic, TierMedium, TierHigh:
		return true
	}
	return false
}

// HostProfile is the result of inspecting the machine once at startup.
// It is immutable after creation; the plan builder reads it for defaults
// and validation.
type HostProfile struct {
	CPUCores             int  `yaml:"cpu_cores" json:"cpu_cores"`
	TotalRAMGB           int  `yaml:"total_ram_gb" json:"total_ram_gb"`
	AvailableRAMGB       int  `yaml:"available_ram_gb" json:"available_ram_gb"`
	Tier                 Tier `yaml:"tier" json:"tier"`
	RecommendedProcesses int  `yaml:"recommended_processes" json:"recommended_processes"`
}

// Classify derives the tier and recommended worker count from raw core and
// RAM figures:
//
//	RAM >= 8GB and cores >= 4  -> high,   cores*2 workers
//	RAM >= 4GB and cores >= 2  -> medium, cores workers
//	otherwise                  -> basic,  2 workers (fixed floor)
func Classify(cores, totalRAMGB int) (Tier, int) {
	switch {
	case totalRAMGB >= 8 && cores >= 4:
		return TierHigh, cores * 2
	case totalRAMGB >= 4 && cores >= 2:
		return TierMedium, cores
	default:
		return TierBasic, 2
	}
}

func (p HostProfile) Validate() error {
	if p.CPUCores < 1 {
		return fmt.Errorf("host profile: cpu cores must be >= 1, got %d", p.CPUCores)
	}
	if p.TotalRAMGB < 0 {
		return fmt.Errorf("host profile: total ram must be >= 0, got %d", p.TotalRAMGB)
	}
	if p.RecommendedProcesses < 1 {
		return fmt.Errorf("host profile: recommended processes must be >= 1, got %d", p.RecommendedProcesses)
	}
	if !p.Tier.Valid() {
		return fmt.Errorf("host profile: unknown tier %q", p.Tier)
	}
	return nil
}
