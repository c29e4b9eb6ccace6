// Package aws provides the live-path clients used when real AWS
// credentials are configured. They speak the same result types as the
// simulator so callers cannot tell the paths apart.
package aws

import (
	"context"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"fleet-cost/core/engine"
	"fleet-cost/core/filter"
	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

// CostExplorer wraps the real Cost Explorer API behind the engine's query
// and result shapes.
type CostExplorer struct {
	client *costexplorer.Client
}

// NewCostExplorer creates a Cost Explorer client from an AWS config
func NewCostExplorer(cfg aws.Config) *CostExplorer {
	return &CostExplorer{client: costexplorer.NewFromConfig(cfg)}
}

// GetCostAndUsage executes the query against the real Cost Explorer API
func (c *CostExplorer) GetCostAndUsage(ctx context.Context, q engine.Query) (types.CostAndUsageResult, error) {
	input := &costexplorer.GetCostAndUsageInput{
		Granularity: cetypes.Granularity(q.Granularity),
		TimePeriod: &cetypes.DateInterval{
			Start: aws.String(q.Start),
			End:   aws.String(q.End),
		},
		Metrics: []string{string(q.Metric)},
	}

	for _, key := range q.GroupBy {
		input.GroupBy = append(input.GroupBy, toGroupDefinition(key))
	}
	if q.Filter != nil {
		expr := toExpression(q.Filter)
		input.Filter = &expr
	}

	output, err := c.client.GetCostAndUsage(ctx, input)
	if err != nil {
		return types.CostAndUsageResult{}, errors.Wrap(errors.TypeNetwork, "cost explorer query", err)
	}

	result := types.CostAndUsageResult{Periods: make([]types.PeriodResult, 0, len(output.ResultsByTime))}
	for _, rbt := range output.ResultsByTime {
		pr := types.PeriodResult{
			Start: aws.ToString(rbt.TimePeriod.Start),
			End:   aws.ToString(rbt.TimePeriod.End),
			Total: parseMetric(rbt.Total, q.Metric),
		}
		for _, g := range rbt.Groups {
			mv := parseMetric(g.Metrics, q.Metric)
			pr.Groups = append(pr.Groups, types.Group{
				Keys:   g.Keys,
				Amount: mv.Amount,
				Unit:   mv.Unit,
			})
		}
		result.Periods = append(result.Periods, pr)
	}
	return result, nil
}

// toGroupDefinition maps an engine group-by key onto a Cost Explorer
// group definition. INSTANCE_FAMILY maps to the Cost Explorer name for
// the same concept.
func toGroupDefinition(key string) cetypes.GroupDefinition {
	if name, ok := strings.CutPrefix(key, types.TagKeyPrefix); ok {
		return cetypes.GroupDefinition{
			Type: cetypes.GroupDefinitionTypeTag,
			Key:  aws.String(name),
		}
	}
	if key == types.DimensionInstanceFamily {
		key = "INSTANCE_TYPE_FAMILY"
	}
	return cetypes.GroupDefinition{
		Type: cetypes.GroupDefinitionTypeDimension,
		Key:  aws.String(key),
	}
}

// toExpression translates a filter tree into a Cost Explorer expression
func toExpression(e filter.Expr) cetypes.Expression {
	switch n := e.(type) {
	case filter.And:
		expr := cetypes.Expression{}
		for _, c := range n.Children {
			expr.And = append(expr.And, toExpression(c))
		}
		return expr
	case filter.Dimension:
		key := n.Key
		if key == types.DimensionInstanceFamily {
			key = "INSTANCE_TYPE_FAMILY"
		}
		return cetypes.Expression{
			Dimensions: &cetypes.DimensionValues{
				Key:    cetypes.Dimension(key),
				Values: n.Values,
			},
		}
	case filter.Tag:
		tv := &cetypes.TagValues{
			Key:    aws.String(n.Key),
			Values: n.Values,
		}
		if n.MatchAbsent {
			tv.MatchOptions = []cetypes.MatchOption{cetypes.MatchOptionAbsent}
		}
		return cetypes.Expression{Tags: tv}
	}
	return cetypes.Expression{}
}

func parseMetric(metrics map[string]cetypes.MetricValue, metric types.Metric) types.MetricValue {
	mv, ok := metrics[string(metric)]
	if !ok {
		return types.MetricValue{Unit: metric.Unit()}
	}
	amount, _ := strconv.ParseFloat(aws.ToString(mv.Amount), 64)
	unit := aws.ToString(mv.Unit)
	if unit == "" {
		unit = metric.Unit()
	}
	return types.MetricValue{Amount: amount, Unit: unit}
}
