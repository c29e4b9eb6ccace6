package engine

import (
	"context"

	"fleet-cost/core/filter"
	"fleet-cost/core/types"
)

// SummaryResult is the ungrouped total across the full period sequence
type SummaryResult struct {
	Periods []types.PeriodResult `json:"periods"`
	Total   types.MetricValue    `json:"total"`
}

// Summary evaluates a query ungrouped and totals it. Any GroupBy on the
// query is ignored.
func (e *Engine) Summary(ctx context.Context, q Query) (SummaryResult, error) {
	q.GroupBy = nil
	res, err := e.GetCostAndUsage(ctx, q)
	if err != nil {
		return SummaryResult{}, err
	}
	return SummaryResult{
		Periods: res.Periods,
		Total:   types.MetricValue{Amount: round6(res.Total()), Unit: q.Metric.Unit()},
	}, nil
}

// BreakdownRow is one (period, group) pair of a grouped query
type BreakdownRow struct {
	Start  string   `json:"start"`
	End    string   `json:"end"`
	Keys   []string `json:"keys"`
	Amount float64  `json:"amount"`
	Unit   string   `json:"unit"`
}

// BreakdownResult is the grouped view of a query
type BreakdownResult struct {
	Rows  []BreakdownRow    `json:"rows"`
	Total types.MetricValue `json:"total"`
}

// Breakdown evaluates a query grouped by the caller-supplied keys and
// flattens it into rows.
func (e *Engine) Breakdown(ctx context.Context, q Query) (BreakdownResult, error) {
	res, err := e.GetCostAndUsage(ctx, q)
	if err != nil {
		return BreakdownResult{}, err
	}

	out := BreakdownResult{Total: types.MetricValue{Unit: q.Metric.Unit()}}
	var total float64
	for _, p := range res.Periods {
		for _, g := range p.Groups {
			out.Rows = append(out.Rows, BreakdownRow{
				Start:  p.Start,
				End:    p.End,
				Keys:   g.Keys,
				Amount: g.Amount,
				Unit:   g.Unit,
			})
			total += g.Amount
		}
	}
	out.Total.Amount = round6(total)
	return out, nil
}

// AttributionResult splits a total into tag-attributed and unaccounted
// portions. Total == Attributed + Unaccounted holds by construction:
// tag-present and tag-absent filters partition the inventory.
type AttributionResult struct {
	TagKey string `json:"tagKey"`

	Total       types.MetricValue `json:"total"`
	Attributed  types.MetricValue `json:"attributed"`
	Unaccounted types.MetricValue `json:"unaccounted"`

	// CoveragePercent is the attributed share of the total (0 when the
	// total is zero)
	CoveragePercent float64 `json:"coveragePercent"`

	// ByValue breaks the attributed portion down per tag value
	ByValue []types.Group `json:"byValue"`
}

// Attribution evaluates the three-way attribution of a tag key over a
// range: overall total, per-tag-value attributed breakdown, and the
// tag-absent unaccounted remainder. Any filter already on the query is
// kept as a conjunct in all three evaluations.
func (e *Engine) Attribution(ctx context.Context, q Query, tagKey string) (AttributionResult, error) {
	if tagKey == "" {
		return AttributionResult{}, errInvalidTagKey
	}
	base := q.Filter
	unit := q.Metric.Unit()

	q.GroupBy = nil
	q.Filter = base
	total, err := e.GetCostAndUsage(ctx, q)
	if err != nil {
		return AttributionResult{}, err
	}

	q.GroupBy = []string{types.TagKeyPrefix + tagKey}
	q.Filter = conjoin(base, filter.TagPresent(tagKey))
	attributed, err := e.GetCostAndUsage(ctx, q)
	if err != nil {
		return AttributionResult{}, err
	}

	q.GroupBy = nil
	q.Filter = conjoin(base, filter.TagAbsent(tagKey))
	unaccounted, err := e.GetCostAndUsage(ctx, q)
	if err != nil {
		return AttributionResult{}, err
	}

	out := AttributionResult{
		TagKey:      tagKey,
		Total:       types.MetricValue{Amount: round6(total.Total()), Unit: unit},
		Attributed:  types.MetricValue{Amount: round6(attributed.Total()), Unit: unit},
		Unaccounted: types.MetricValue{Amount: round6(unaccounted.Total()), Unit: unit},
		ByValue:     mergeGroups(attributed, unit),
	}
	if out.Total.Amount > 0 {
		out.CoveragePercent = round6(out.Attributed.Amount / out.Total.Amount * 100)
	}
	return out, nil
}

// conjoin attaches an extra predicate to an optional base filter
func conjoin(base filter.Expr, extra filter.Expr) filter.Expr {
	if base == nil {
		return extra
	}
	return filter.AllOf(base, extra)
}

// mergeGroups sums a grouped result's rows across periods into one group
// list, sorted by key.
func mergeGroups(res types.CostAndUsageResult, unit string) []types.Group {
	totals := map[string]float64{}
	var order []string
	for _, p := range res.Periods {
		for _, g := range p.Groups {
			key := g.Keys[0]
			if _, ok := totals[key]; !ok {
				order = append(order, key)
			}
			totals[key] += g.Amount
		}
	}

	groups := make([]types.Group, 0, len(order))
	for _, key := range sortedCopy(order) {
		groups = append(groups, types.Group{
			Keys:   []string{key},
			Amount: round6(totals[key]),
			Unit:   unit,
		})
	}
	return groups
}
