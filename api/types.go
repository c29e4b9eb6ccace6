// Package api is the thin HTTP layer over the cost engine. It is only
// responsible for input ingestion, engine orchestration, and output
// serialization; it never performs cost logic.
package api

import (
	"fleet-cost/core/engine"
	"fleet-cost/core/filter"
	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

// CostQueryRequest is the body of POST /api/v1/costs
type CostQueryRequest struct {
	Start         string      `json:"start" binding:"required"`
	End           string      `json:"end" binding:"required"`
	Granularity   string      `json:"granularity"`
	Metric        string      `json:"metric"`
	GroupBy       []string    `json:"groupBy,omitempty"`
	Filter        *FilterSpec `json:"filter,omitempty"`
	IncludeFuture bool        `json:"includeFuture"`
}

// FilterSpec is the wire form of a filter expression. Exactly one of the
// fields may be set per node.
type FilterSpec struct {
	And       []FilterSpec         `json:"and,omitempty"`
	Dimension *DimensionFilterSpec `json:"dimension,omitempty"`
	Tag       *TagFilterSpec       `json:"tag,omitempty"`
}

// DimensionFilterSpec matches a dimension against a value set
type DimensionFilterSpec struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// TagFilterSpec matches on a tag key
type TagFilterSpec struct {
	Key         string   `json:"key"`
	Values      []string `json:"values,omitempty"`
	MatchAbsent bool     `json:"matchAbsent,omitempty"`
}

// toQuery converts the request into an engine query, rejecting malformed
// filters before the engine sees them.
func (r CostQueryRequest) toQuery() (engine.Query, error) {
	q := engine.Query{
		Start:         r.Start,
		End:           r.End,
		Granularity:   types.Granularity(r.Granularity),
		Metric:        types.Metric(r.Metric),
		GroupBy:       r.GroupBy,
		IncludeFuture: r.IncludeFuture,
	}
	if q.Granularity == "" {
		q.Granularity = types.GranularityDaily
	}
	if q.Metric == "" {
		q.Metric = types.MetricUnblendedCost
	}
	if r.Filter != nil {
		expr, err := r.Filter.toExpr()
		if err != nil {
			return engine.Query{}, err
		}
		q.Filter = expr
	}
	return q, nil
}

func (f FilterSpec) toExpr() (filter.Expr, error) {
	set := 0
	if len(f.And) > 0 {
		set++
	}
	if f.Dimension != nil {
		set++
	}
	if f.Tag != nil {
		set++
	}
	if set != 1 {
		return nil, errors.Filter("filter node must set exactly one of and/dimension/tag")
	}

	switch {
	case len(f.And) > 0:
		children := make([]filter.Expr, 0, len(f.And))
		for _, c := range f.And {
			expr, err := c.toExpr()
			if err != nil {
				return nil, err
			}
			children = append(children, expr)
		}
		return filter.AllOf(children...), nil
	case f.Dimension != nil:
		return filter.NewDimension(f.Dimension.Key, f.Dimension.Values...)
	default:
		if f.Tag.Key == "" {
			return nil, errors.Filter("tag filter requires a key")
		}
		if f.Tag.MatchAbsent {
			return filter.TagAbsent(f.Tag.Key), nil
		}
		return filter.TagIn(f.Tag.Key, f.Tag.Values...), nil
	}
}

// errorEnvelope is the error response body
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// responseMeta carries request-level metadata on successful responses
type responseMeta struct {
	DurationMs int64 `json:"durationMs"`
}
