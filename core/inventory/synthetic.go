package inventory

import (
	"context"
	"fmt"
	"time"

	"fleet-cost/core/detrand"
	"fleet-cost/core/types"
)

// SyntheticSource fabricates a deterministic fleet. The same (Count,
// Namespace) pair always yields the same inventory, so demo deployments
// and tests see stable data.
type SyntheticSource struct {
	// Count is the fleet size
	Count int

	// Namespace prefixes every draw key, isolating independently
	// seeded fleets
	Namespace string

	// Base anchors launch times; instances launch up to 90 days before
	// it
	Base time.Time
}

// NewSyntheticSource creates a seeded synthetic inventory source
func NewSyntheticSource(count int, namespace string, base time.Time) *SyntheticSource {
	return &SyntheticSource{Count: count, Namespace: namespace, Base: base}
}

var (
	syntheticRegions = []string{"us-east-1", "us-west-2", "eu-west-1"}
	syntheticTypes   = []string{
		"t3.medium", "t3.large", "m5.large", "m5.xlarge", "m5.2xlarge",
		"c5.xlarge", "r5.large", "r5.xlarge", "p3.2xlarge", "g4dn.xlarge",
	}
	syntheticTeams    = []string{"bioinformatics", "ml-platform", "web", "data-eng", ""}
	syntheticProjects = []string{"genome-pipeline", "protein-folding", "frontend", "etl", ""}
)

func pick(key string, options []string) string {
	return options[int(detrand.Uniform(key)*float64(len(options)))%len(options)]
}

// Load implements Source
func (s *SyntheticSource) Load(_ context.Context) ([]types.Instance, error) {
	instances := make([]types.Instance, 0, s.Count)
	for n := 0; n < s.Count; n++ {
		id := fmt.Sprintf("i-%s%08x", s.Namespace, detrand.Hash(fmt.Sprintf("%s:id:%d", s.Namespace, n)))
		seed := s.Namespace + ":" + id

		state := types.InstanceStateRunning
		if detrand.Bernoulli(seed+":stopped", 0.1) {
			state = "stopped"
		}

		tags := map[string]string{}
		if team := pick(seed+":team", syntheticTeams); team != "" {
			tags["Team"] = team
		}
		if project := pick(seed+":project", syntheticProjects); project != "" {
			tags["Project"] = project
		}

		launchDaysAgo := detrand.Band(seed+":launch", 1, 90)
		instances = append(instances, types.Instance{
			Region:     pick(seed+":region", syntheticRegions),
			InstanceID: id,
			Type:       pick(seed+":type", syntheticTypes),
			State:      state,
			LaunchTime: s.Base.Add(-time.Duration(launchDaysAgo*24) * time.Hour),
			Tags:       tags,
		})
	}
	return instances, nil
}
