package profile

import (
	"strings"

	"fleet-cost/core/detrand"
	"fleet-cost/core/pricing"
	"fleet-cost/core/types"
)

// EBSVolumeType is the synthesized volume type of the instance's root
// volume
type EBSVolumeType string

const (
	EBSTypeGP3 EBSVolumeType = "gp3"
	EBSTypeIO2 EBSVolumeType = "io2"
)

// Signals are the per-instance runtime signals and shadow infrastructure
// attachments derived from the utilization profile. Each field is seeded
// by its own (instanceId, name) key so signals stay independent of each
// other while remaining stable across repeated calls.
type Signals struct {
	Profile Utilization

	// BaselineUptimeHoursPerDay caps daily compute hours; Optimal
	// instances model a diurnal pattern, everything else runs flat out
	// (or sits idle) around the clock.
	BaselineUptimeHoursPerDay float64

	CPUAvgPercent float64
	MemAvgPercent float64

	// CPUCreditRatePerVCPUHour is nonzero only for over-utilized
	// burstable families
	CPUCreditRatePerVCPUHour float64

	// DataTransferGBPerDay is the profile-dependent egress volume
	DataTransferGBPerDay float64

	EBSType   EBSVolumeType
	EBSSizeGB int
	EBSIOPS   int

	HasElasticIP bool

	// ElasticIPIdle models an idle instance holding an unused floating
	// IP, a realistic cost leak
	ElasticIPIdle bool

	HasNATGateway bool
	UsesALB       bool
}

// cpu/mem draw bands per profile, percent
var (
	cpuBands = map[Utilization][2]float64{
		Idle:          {0.5, 2.5},
		UnderUtilized: {3, 12},
		Optimal:       {25, 55},
		OverUtilized:  {75, 92},
	}
	memBands = map[Utilization][2]float64{
		Idle:          {2, 8},
		UnderUtilized: {8, 20},
		Optimal:       {30, 60},
		OverUtilized:  {70, 90},
	}
	transferGBPerDay = map[Utilization]float64{
		Idle:          0.1,
		UnderUtilized: 1,
		Optimal:       5,
		OverUtilized:  20,
	}
)

// burstableFamilies are the families that can accrue CPU-credit charges
var burstableFamilies = []string{"t2", "t3", "t4g"}

func isBurstable(family string) bool {
	for _, pfx := range burstableFamilies {
		if strings.HasPrefix(family, pfx) {
			return true
		}
	}
	return false
}

// Synthesize derives the signals and infrastructure attachments for an
// instance with a given profile.
func Synthesize(inst types.Instance, u Utilization) Signals {
	id := inst.InstanceID

	s := Signals{
		Profile:                   u,
		BaselineUptimeHoursPerDay: 24,
		DataTransferGBPerDay:      transferGBPerDay[u],
	}
	if u == Optimal {
		s.BaselineUptimeHoursPerDay = 16
	}

	cpu := cpuBands[u]
	mem := memBands[u]
	s.CPUAvgPercent = detrand.Band(id+":cpu", cpu[0], cpu[1])
	s.MemAvgPercent = detrand.Band(id+":mem", mem[0], mem[1])

	if u == OverUtilized && isBurstable(inst.Family()) {
		spec := pricing.Lookup(inst.Type)
		s.CPUCreditRatePerVCPUHour = pricing.CPUCreditPerVCPUHour * float64(spec.VCPU) * (s.CPUAvgPercent / 100)
	}

	s.EBSType = EBSTypeGP3
	if detrand.Bernoulli(id+":io2", 0.15) {
		s.EBSType = EBSTypeIO2
	}
	s.EBSSizeGB = 50 + int(detrand.Uniform(id+":ebsgb")*450)
	if s.EBSType == EBSTypeIO2 {
		s.EBSIOPS = 3000 + int(detrand.Uniform(id+":iops")*9000)
	}

	s.HasElasticIP = detrand.Bernoulli(id+":eip", 0.3)
	s.ElasticIPIdle = s.HasElasticIP && u == Idle && detrand.Bernoulli(id+":eipidle", 0.8)
	s.HasNATGateway = detrand.Bernoulli(id+":nat", 0.2)
	s.UsesALB = detrand.Bernoulli(id+":alb", 0.4)

	return s
}

// Derive classifies an instance and synthesizes its signals in one step
func Derive(inst types.Instance) Signals {
	return Synthesize(inst, Classify(inst))
}
