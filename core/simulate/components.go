// Package simulate fabricates the per-instance usage components of the
// mock Cost Explorer. Component model, per instance and period:
// - Instance hours (day-iterated, noise-jittered, uptime-capped)
// - EBS storage per GB-month, provisioned IOPS for io2
// - Data transfer out
// - Idle Elastic IP hours, NAT Gateway hours
// - CPU credits for over-utilized burstable instances
// - Load balancer capacity units
// The calculator is a pure function of deterministic inputs: identical
// arguments yield bit-identical output.
package simulate

import (
	"time"

	"fleet-cost/core/period"
	"fleet-cost/core/pricing"
	"fleet-cost/core/profile"
	"fleet-cost/core/types"

	"fleet-cost/core/detrand"
)

// Component is one labeled usage line item contributed by one instance in
// one period. Amount is in USD for cost metrics and hours for
// UsageQuantity.
type Component struct {
	UsageType string
	Amount    float64
}

// Options carry the query-level knobs the calculator needs
type Options struct {
	// Reference is the fixed "today"; days on or after it accrue
	// nothing unless IncludeFuture is set
	Reference time.Time

	// IncludeFuture accrues cost beyond the reference instant
	IncludeFuture bool

	// UsageTypes restricts emitted components to the given labels
	// (nil means no restriction)
	UsageTypes map[string]bool
}

// clip returns the future-exclusion clipping instant (zero when future
// accrual is allowed)
func (o Options) clip() time.Time {
	if o.IncludeFuture {
		return time.Time{}
	}
	return o.Reference
}

// Per-day usage-price jitter band
const (
	noiseLo = 0.97
	noiseHi = 1.05
)

// Calculate produces the usage components for one instance over one
// period. Only strictly positive amounts are emitted.
func Calculate(inst types.Instance, sig profile.Signals, p period.Period, metric types.Metric, opts Options) []Component {
	spec := pricing.Lookup(inst.Type)
	clip := opts.clip()

	var out []Component
	emit := func(usageType string, amount float64) {
		if amount <= 0 {
			return
		}
		if opts.UsageTypes != nil && !opts.UsageTypes[usageType] {
			return
		}
		out = append(out, Component{UsageType: usageType, Amount: amount})
	}

	// Compute accrues day by day so the noise draw and the uptime cap
	// apply at daily resolution regardless of query granularity.
	var computeAmount float64
	var effectiveDays float64
	for _, day := range period.Days(p.Start, p.End) {
		if !opts.IncludeFuture && !day.Start.Before(opts.Reference) {
			continue
		}
		effectiveDays++

		hours := period.HoursOverlap(inst.LaunchTime, day.Start, day.End, clip)
		if hours > sig.BaselineUptimeHoursPerDay {
			hours = sig.BaselineUptimeHoursPerDay
		}
		if hours <= 0 {
			continue
		}
		if metric.IsUsage() {
			computeAmount += hours
			continue
		}
		noise := detrand.Band(inst.InstanceID+":noise:"+day.Start.Format(types.DateLayout), noiseLo, noiseHi)
		computeAmount += hours * spec.PricePerHour * noise
	}
	emit("BoxUsage:"+inst.Type, computeAmount)

	// Usage-quantity mode reports hours; the ancillary components are
	// currency-only.
	if metric.IsUsage() {
		return out
	}

	overlapHours := period.HoursOverlap(inst.LaunchTime, p.Start, p.End, clip)
	monthFraction := effectiveDays / pricing.DaysPerMonth

	switch sig.EBSType {
	case profile.EBSTypeIO2:
		emit("EBS:VolumeUsage.io2", float64(sig.EBSSizeGB)*pricing.EBSIO2MonthlyPerGB*monthFraction)
		emit("EBS:VolumeP-IOPS.io2", float64(sig.EBSIOPS)*pricing.EBSIO2IOPSMonthly*monthFraction)
	default:
		emit("EBS:VolumeUsage.gp3", float64(sig.EBSSizeGB)*pricing.EBSGP3MonthlyPerGB*monthFraction)
	}

	emit("DataTransfer-Out-Bytes", sig.DataTransferGBPerDay*pricing.DataTransferPerGB*effectiveDays)

	if sig.ElasticIPIdle {
		emit("ElasticIP:IdleAddress", pricing.ElasticIPIdleHourly*overlapHours)
	}
	if sig.HasNATGateway {
		emit("NatGateway-Hours", pricing.NATGatewayHourly*overlapHours)
	}
	if sig.CPUCreditRatePerVCPUHour > 0 {
		emit("CPUCredits:"+inst.Family(), sig.CPUCreditRatePerVCPUHour*overlapHours)
	}

	// ALB billing is double-gated: the instance must use a load
	// balancer at all, a second draw models partial attachment, and
	// only mid/high-utilization instances generate capacity units.
	// Fixed numeric policy.
	if sig.UsesALB &&
		(sig.Profile == profile.Optimal || sig.Profile == profile.OverUtilized) &&
		detrand.Bernoulli(inst.InstanceID+":albuse", 0.5) {
		emit("LoadBalancerUsage", pricing.ALBLCUDaily*effectiveDays)
	}

	return out
}
