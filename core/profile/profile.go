// Package profile classifies simulated instances into utilization
// profiles and synthesizes the runtime signals and shadow infrastructure
// that drive their cost behavior. Classification is a pure function of
// instance id, type, and tags: it never looks at the clock and never
// caches, so two calls for the same instance always agree.
package profile

import (
	"strings"

	"fleet-cost/core/detrand"
	"fleet-cost/core/types"
)

// Utilization is the synthetic utilization profile of an instance
type Utilization int

const (
	Idle Utilization = iota
	UnderUtilized
	Optimal
	OverUtilized
)

// String returns the profile name
func (u Utilization) String() string {
	switch u {
	case Idle:
		return "Idle"
	case UnderUtilized:
		return "UnderUtilized"
	case Optimal:
		return "Optimal"
	case OverUtilized:
		return "OverUtilized"
	}
	return "Unknown"
}

// gpuFamilies are instance-family prefixes that bias toward busy profiles
var gpuFamilies = []string{"p2", "p3", "p4", "g4", "g5"}

// busyScoreThreshold routes high-signal instances into the biased tier
const busyScoreThreshold = 0.25

// Classify assigns an instance one of the four utilization profiles.
//
// Two tiers: tag and family signals first push the score toward "busy";
// instances that clear the threshold resolve Over vs Optimal with a biased
// coin, everything else falls through to the unconditional distribution.
// Both tiers and their exact thresholds are load-bearing for regression
// fixtures.
func Classify(inst types.Instance) Utilization {
	score := 0.0

	family := inst.Family()
	for _, pfx := range gpuFamilies {
		if strings.HasPrefix(family, pfx) {
			score += 0.25
			break
		}
	}

	team := strings.ToLower(inst.Tag("Team"))
	if strings.Contains(team, "bio") {
		score += 0.15
	}
	if strings.Contains(team, "ml") {
		score += 0.15
	}

	project := strings.ToLower(inst.Tag("Project"))
	if strings.Contains(project, "gene") {
		score += 0.05
	}
	if strings.Contains(project, "protein") {
		score += 0.05
	}

	score += detrand.Jitter(inst.InstanceID+inst.Type, 0.1)

	if score >= busyScoreThreshold {
		if detrand.Bernoulli(inst.InstanceID+":over", 0.55) {
			return OverUtilized
		}
		return Optimal
	}

	r := detrand.Uniform(inst.InstanceID)
	switch {
	case r < 0.25:
		return Idle
	case r < 0.55:
		return UnderUtilized
	case r < 0.8:
		return Optimal
	default:
		return OverUtilized
	}
}
