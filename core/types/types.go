// Package types defines the shared domain types for the cost engine.
package types

import (
	"strings"
	"time"
)

// Granularity is the time bucketing of a cost/usage query
type Granularity string

const (
	GranularityDaily   Granularity = "DAILY"
	GranularityMonthly Granularity = "MONTHLY"
)

// Metric is the quantity being reported
type Metric string

const (
	MetricUnblendedCost Metric = "UnblendedCost"
	MetricAmortizedCost Metric = "AmortizedCost"
	MetricUsageQuantity Metric = "UsageQuantity"
)

// IsUsage reports whether the metric is hour-denominated rather than
// currency-denominated
func (m Metric) IsUsage() bool {
	return m == MetricUsageQuantity
}

// Unit returns the reporting unit for the metric
func (m Metric) Unit() string {
	if m.IsUsage() {
		return "Hrs"
	}
	return "USD"
}

// Dimension group-by keys understood by the rollup engine. Tag keys are
// expressed as "TAG:<name>".
const (
	DimensionRegion         = "REGION"
	DimensionInstanceType   = "INSTANCE_TYPE"
	DimensionInstanceFamily = "INSTANCE_FAMILY"
	DimensionUsageType      = "USAGE_TYPE"

	// TagKeyPrefix marks a group-by key as a cost-allocation tag
	TagKeyPrefix = "TAG:"

	// UntaggedKey is the group value for instances missing the tag
	UntaggedKey = "(untagged)"

	// TotalKey is the single bucket used when no grouping is requested
	TotalKey = "__TOTAL__"
)

// InstanceStateRunning is the only state that accrues cost
const InstanceStateRunning = "running"

// Instance is one EC2 instance from the inventory. Read-only input to the
// engine; InstanceID is the stable seed for all deterministic draws.
type Instance struct {
	// Region is the AWS region (e.g. "us-east-1")
	Region string `json:"region"`

	// InstanceID uniquely identifies the instance
	InstanceID string `json:"instanceId"`

	// Type is the instance type (e.g. "m5.large")
	Type string `json:"type"`

	// State is the instance state; only "running" instances participate
	State string `json:"state"`

	// LaunchTime is when the instance was started
	LaunchTime time.Time `json:"launchTime"`

	// Tags are the instance's resource tags
	Tags map[string]string `json:"tags,omitempty"`
}

// Family returns the instance family, the substring before the first "."
// (e.g. "m5" for "m5.large").
func (i Instance) Family() string {
	if idx := strings.Index(i.Type, "."); idx > 0 {
		return i.Type[:idx]
	}
	return i.Type
}

// IsRunning reports whether the instance accrues cost
func (i Instance) IsRunning() bool {
	return i.State == InstanceStateRunning
}

// Tag returns the instance's value for a tag key ("" when absent)
func (i Instance) Tag(key string) string {
	return i.Tags[key]
}

// MetricValue is an amount with its reporting unit, mirroring the Cost
// Explorer response shape.
type MetricValue struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Group is one grouped row within a period
type Group struct {
	// Keys are the group-by values, one per requested group-by key
	Keys []string `json:"keys"`

	// Amount is the accumulated amount for this group
	Amount float64 `json:"amount"`

	// Unit is the reporting unit
	Unit string `json:"unit"`
}

// PeriodResult is one time bucket of a cost/usage result
type PeriodResult struct {
	// Start is the inclusive period start date (YYYY-MM-DD)
	Start string `json:"start"`

	// End is the exclusive period end date (YYYY-MM-DD)
	End string `json:"end"`

	// Total is the period total across all groups
	Total MetricValue `json:"total"`

	// Groups are the grouped rows; empty when the query is ungrouped
	Groups []Group `json:"groups,omitempty"`
}

// CostAndUsageResult is the full result of a cost/usage query, a
// time-ordered sequence of period buckets.
type CostAndUsageResult struct {
	Periods []PeriodResult `json:"periods"`
}

// Total sums the per-period totals
func (r CostAndUsageResult) Total() float64 {
	var total float64
	for _, p := range r.Periods {
		total += p.Total.Amount
	}
	return total
}

// DateLayout is the wire format for query dates
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date at midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
