// Package pricing holds the static instance-type catalog and the unit
// rates the simulator bills against:
// - Instance hours (on-demand, by instance type)
// - EBS storage per GB-month (gp3/io2) and provisioned IOPS (io2)
// - Data transfer out per GB
// - Elastic IP idle hours, NAT Gateway hours, ALB LCU-days
// - CPU credits for burstable families
// Rates are fixed in-process: the simulator needs internal consistency,
// not live AWS price fidelity.
package pricing

// InstanceSpec describes one instance type
type InstanceSpec struct {
	// PricePerHour is the on-demand hourly rate in USD
	PricePerHour float64

	// VCPU is the vCPU count
	VCPU int

	// MemoryGiB is the instance memory
	MemoryGiB float64
}

// Unit rates for ancillary components
const (
	// EBSGP3MonthlyPerGB is the gp3 storage rate per GB-month
	EBSGP3MonthlyPerGB = 0.08

	// EBSIO2MonthlyPerGB is the io2 storage rate per GB-month
	EBSIO2MonthlyPerGB = 0.125

	// EBSIO2IOPSMonthly is the io2 provisioned-IOPS rate per IOPS-month
	EBSIO2IOPSMonthly = 0.065

	// DataTransferPerGB is the data-transfer-out rate per GB
	DataTransferPerGB = 0.09

	// ElasticIPIdleHourly is the idle Elastic IP rate per hour
	ElasticIPIdleHourly = 0.005

	// NATGatewayHourly is the NAT Gateway rate per hour
	NATGatewayHourly = 0.045

	// ALBLCUDaily is the load-balancer capacity-unit rate per day
	ALBLCUDaily = 0.008

	// CPUCreditPerVCPUHour is the burst-credit rate per vCPU-hour
	CPUCreditPerVCPUHour = 0.05

	// DaysPerMonth normalizes monthly rates to period lengths
	DaysPerMonth = 30.0
)

// catalog is the on-demand instance catalog (us-east-1 Linux rates)
var catalog = map[string]InstanceSpec{
	"t2.micro":    {PricePerHour: 0.0116, VCPU: 1, MemoryGiB: 1},
	"t2.small":    {PricePerHour: 0.023, VCPU: 1, MemoryGiB: 2},
	"t2.medium":   {PricePerHour: 0.0464, VCPU: 2, MemoryGiB: 4},
	"t3.micro":    {PricePerHour: 0.0104, VCPU: 2, MemoryGiB: 1},
	"t3.small":    {PricePerHour: 0.0208, VCPU: 2, MemoryGiB: 2},
	"t3.medium":   {PricePerHour: 0.0416, VCPU: 2, MemoryGiB: 4},
	"t3.large":    {PricePerHour: 0.0832, VCPU: 2, MemoryGiB: 8},
	"t3.xlarge":   {PricePerHour: 0.1664, VCPU: 4, MemoryGiB: 16},
	"t4g.medium":  {PricePerHour: 0.0336, VCPU: 2, MemoryGiB: 4},
	"t4g.large":   {PricePerHour: 0.0672, VCPU: 2, MemoryGiB: 8},
	"m5.large":    {PricePerHour: 0.096, VCPU: 2, MemoryGiB: 8},
	"m5.xlarge":   {PricePerHour: 0.192, VCPU: 4, MemoryGiB: 16},
	"m5.2xlarge":  {PricePerHour: 0.384, VCPU: 8, MemoryGiB: 32},
	"m5.4xlarge":  {PricePerHour: 0.768, VCPU: 16, MemoryGiB: 64},
	"c5.large":    {PricePerHour: 0.085, VCPU: 2, MemoryGiB: 4},
	"c5.xlarge":   {PricePerHour: 0.17, VCPU: 4, MemoryGiB: 8},
	"c5.2xlarge":  {PricePerHour: 0.34, VCPU: 8, MemoryGiB: 16},
	"r5.large":    {PricePerHour: 0.126, VCPU: 2, MemoryGiB: 16},
	"r5.xlarge":   {PricePerHour: 0.252, VCPU: 4, MemoryGiB: 32},
	"r5.2xlarge":  {PricePerHour: 0.504, VCPU: 8, MemoryGiB: 64},
	"p3.2xlarge":  {PricePerHour: 3.06, VCPU: 8, MemoryGiB: 61},
	"p3.8xlarge":  {PricePerHour: 12.24, VCPU: 32, MemoryGiB: 244},
	"g4dn.xlarge": {PricePerHour: 0.526, VCPU: 4, MemoryGiB: 16},
	"g4dn.2xlarge": {PricePerHour: 0.752, VCPU: 8, MemoryGiB: 32},
}

// fallbackSpec keeps unknown types billable so arbitrary inventories still
// satisfy the rollup invariants
var fallbackSpec = InstanceSpec{PricePerHour: 0.05, VCPU: 2, MemoryGiB: 4}

// Lookup returns the spec for an instance type, falling back to a fixed
// default for types not in the catalog.
func Lookup(instanceType string) InstanceSpec {
	if spec, ok := catalog[instanceType]; ok {
		return spec
	}
	return fallbackSpec
}

// Known reports whether the instance type is in the catalog
func Known(instanceType string) bool {
	_, ok := catalog[instanceType]
	return ok
}
