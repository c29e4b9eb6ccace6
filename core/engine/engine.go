// Package engine evaluates cost/usage queries against an instance
// inventory, fabricating Cost-Explorer-shaped results. One accumulation
// pass per period feeds both the group rows and the period total, so the
// total always equals the sum of its groups.
package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fleet-cost/core/filter"
	"fleet-cost/core/inventory"
	"fleet-cost/core/period"
	"fleet-cost/core/profile"
	"fleet-cost/core/simulate"
	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

// Engine answers cost/usage queries. It is stateless apart from its
// immutable configuration and safe to call concurrently.
type Engine struct {
	source    inventory.Source
	reference time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithReference fixes the "today" instant used for future-cost exclusion.
// The engine never reads the wall clock during evaluation.
func WithReference(ref time.Time) Option {
	return func(e *Engine) {
		e.reference = ref
	}
}

// New creates an engine over an inventory source. Without WithReference
// the reference is the start of the current UTC day, captured once at
// construction.
func New(source inventory.Source, opts ...Option) *Engine {
	now := time.Now().UTC()
	e := &Engine{
		source:    source,
		reference: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reference returns the engine's fixed "today"
func (e *Engine) Reference() time.Time {
	return e.reference
}

// Query is one cost/usage request
type Query struct {
	// Start and End bound the half-open [Start, End) range, YYYY-MM-DD
	Start string
	End   string

	Granularity types.Granularity
	Metric      types.Metric

	// GroupBy holds 0-2 dimension or TAG:<name> group keys
	GroupBy []string

	// Filter restricts eligible instances (nil means no filter)
	Filter filter.Expr

	// IncludeFuture accrues cost on or after the reference date
	IncludeFuture bool
}

// GetCostAndUsage evaluates a query into period buckets. Amounts are
// rounded to 6 decimal places here, at the boundary, so rounding error
// never compounds across aggregation steps.
func (e *Engine) GetCostAndUsage(ctx context.Context, q Query) (types.CostAndUsageResult, error) {
	start, end, err := q.parseRange()
	if err != nil {
		return types.CostAndUsageResult{}, err
	}
	if err := q.validate(); err != nil {
		return types.CostAndUsageResult{}, err
	}

	instances, err := e.source.Load(ctx)
	if err != nil {
		return types.CostAndUsageResult{}, err
	}

	var periods []period.Period
	if q.Granularity == types.GranularityMonthly {
		periods = period.Months(start, end)
	} else {
		periods = period.Days(start, end)
	}

	opts := simulate.Options{
		Reference:     e.reference,
		IncludeFuture: q.IncludeFuture,
		UsageTypes:    filter.UsageTypes(q.Filter),
	}

	// Profile/signal derivation is memoized per evaluation only; it is
	// a pure function, so recomputing would be equally correct.
	signals := make(map[string]profile.Signals, len(instances))
	signalsFor := func(inst types.Instance) profile.Signals {
		if sig, ok := signals[inst.InstanceID]; ok {
			return sig
		}
		sig := profile.Derive(inst)
		signals[inst.InstanceID] = sig
		return sig
	}

	result := types.CostAndUsageResult{Periods: make([]types.PeriodResult, 0, len(periods))}
	for _, p := range periods {
		buckets := map[string]*types.Group{}
		var order []string

		for _, inst := range instances {
			if !inst.IsRunning() {
				continue
			}
			if q.Filter != nil && !q.Filter.Matches(inst) {
				continue
			}

			for _, comp := range simulate.Calculate(inst, signalsFor(inst), p, q.Metric, opts) {
				keys := groupKeys(q.GroupBy, inst, comp.UsageType)
				composite := strings.Join(keys, "|")
				bucket, ok := buckets[composite]
				if !ok {
					bucket = &types.Group{Keys: keys, Unit: q.Metric.Unit()}
					buckets[composite] = bucket
					order = append(order, composite)
				}
				bucket.Amount += comp.Amount
			}
		}

		sort.Strings(order)

		pr := types.PeriodResult{
			Start: p.Start.Format(types.DateLayout),
			End:   p.End.Format(types.DateLayout),
			Total: types.MetricValue{Unit: q.Metric.Unit()},
		}
		var total float64
		for _, composite := range order {
			bucket := buckets[composite]
			total += bucket.Amount
			if len(q.GroupBy) > 0 {
				pr.Groups = append(pr.Groups, types.Group{
					Keys:   bucket.Keys,
					Amount: round6(bucket.Amount),
					Unit:   bucket.Unit,
				})
			}
		}
		pr.Total.Amount = round6(total)
		result.Periods = append(result.Periods, pr)
	}

	return result, nil
}

func (q Query) parseRange() (time.Time, time.Time, error) {
	start, err := types.ParseDate(q.Start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Newf(errors.TypeInput, "invalid start date: %s", q.Start)
	}
	end, err := types.ParseDate(q.End)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Newf(errors.TypeInput, "invalid end date: %s", q.End)
	}
	return start, end, nil
}

func (q Query) validate() error {
	switch q.Granularity {
	case types.GranularityDaily, types.GranularityMonthly:
	default:
		return errors.Newf(errors.TypeInput, "unsupported granularity: %s", q.Granularity)
	}
	switch q.Metric {
	case types.MetricUnblendedCost, types.MetricAmortizedCost, types.MetricUsageQuantity:
	default:
		return errors.Newf(errors.TypeInput, "unsupported metric: %s", q.Metric)
	}
	if len(q.GroupBy) > 2 {
		return errors.Input("at most 2 group-by keys are supported")
	}
	for _, key := range q.GroupBy {
		if !validGroupKey(key) {
			return errors.Newf(errors.TypeInput, "unsupported group-by key: %s", key)
		}
	}
	return nil
}

func validGroupKey(key string) bool {
	switch key {
	case types.DimensionRegion, types.DimensionInstanceType,
		types.DimensionInstanceFamily, types.DimensionUsageType:
		return true
	}
	return strings.HasPrefix(key, types.TagKeyPrefix) && len(key) > len(types.TagKeyPrefix)
}

// groupKeys maps the requested group-by keys to this component's group
// values. No grouping collapses everything into the single total bucket.
func groupKeys(groupBy []string, inst types.Instance, usageType string) []string {
	if len(groupBy) == 0 {
		return []string{types.TotalKey}
	}
	keys := make([]string, len(groupBy))
	for i, key := range groupBy {
		keys[i] = groupValue(key, inst, usageType)
	}
	return keys
}

func groupValue(key string, inst types.Instance, usageType string) string {
	switch key {
	case types.DimensionRegion:
		return inst.Region
	case types.DimensionInstanceType:
		return inst.Type
	case types.DimensionInstanceFamily:
		return inst.Family()
	case types.DimensionUsageType:
		return usageType
	}
	value := inst.Tag(strings.TrimPrefix(key, types.TagKeyPrefix))
	if value == "" {
		return types.UntaggedKey
	}
	return value
}

func round6(v float64) float64 {
	return decimal.NewFromFloat(v).Round(6).InexactFloat64()
}
