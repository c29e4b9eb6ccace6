package engine

import (
	"context"
	"sort"

	"fleet-cost/core/period"
	"fleet-cost/core/profile"
	"fleet-cost/core/simulate"
	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

var errInvalidTagKey = errors.Input("tag key must not be empty")

// GetTagValues returns the sorted distinct non-empty values of a tag key
// across the whole inventory. Deliberately range-independent: the
// simulated fleet does not churn, so the value set is a property of the
// inventory alone.
func (e *Engine) GetTagValues(ctx context.Context, tagKey string) ([]string, error) {
	if tagKey == "" {
		return nil, errInvalidTagKey
	}
	instances, err := e.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, inst := range instances {
		if v := inst.Tag(tagKey); v != "" {
			seen[v] = true
		}
	}
	return sortedKeys(seen), nil
}

// GetDimensionValues returns the sorted distinct values of a dimension
// over [start, end). REGION / INSTANCE_TYPE / INSTANCE_FAMILY come from
// the running inventory; USAGE_TYPE is derived by simulating a single
// representative day and collecting the emitted labels.
func (e *Engine) GetDimensionValues(ctx context.Context, dimensionKey, start, end string) ([]string, error) {
	instances, err := e.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	switch dimensionKey {
	case types.DimensionRegion:
		for _, inst := range instances {
			if inst.IsRunning() {
				seen[inst.Region] = true
			}
		}
	case types.DimensionInstanceType:
		for _, inst := range instances {
			if inst.IsRunning() {
				seen[inst.Type] = true
			}
		}
	case types.DimensionInstanceFamily:
		for _, inst := range instances {
			if inst.IsRunning() {
				seen[inst.Family()] = true
			}
		}
	case types.DimensionUsageType:
		day, err := types.ParseDate(start)
		if err != nil {
			return nil, errors.Newf(errors.TypeInput, "invalid start date: %s", start)
		}
		p := period.Period{Start: day, End: day.AddDate(0, 0, 1)}
		// Future exclusion is bypassed here: label enumeration must
		// work for any queried range.
		opts := simulate.Options{Reference: e.reference, IncludeFuture: true}
		for _, inst := range instances {
			if !inst.IsRunning() {
				continue
			}
			sig := profile.Derive(inst)
			for _, comp := range simulate.Calculate(inst, sig, p, types.MetricUnblendedCost, opts) {
				seen[comp.UsageType] = true
			}
		}
	default:
		return nil, errors.Newf(errors.TypeInput, "unsupported dimension key: %s", dimensionKey)
	}

	return sortedKeys(seen), nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
