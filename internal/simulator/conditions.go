package simulator

import "math"

// Condition shapes how base pace evolves over the race distance. Profiles
// are pure functions of lap number so generated sessions stay reproducible.
type Condition interface {
	Apply(lap, totalLaps int, basePace float64) float64
	Name() string
}

var (
	ConditionDry    Condition = &DryCondition{}
	ConditionHot    Condition = &HotCondition{}
	ConditionRain   Condition = &RainOnsetCondition{}
	ConditionDrying Condition = &DryingCondition{}
)

func ParseCondition(name string) Condition {
	switch name {
	case "hot":
		return ConditionHot
	case "rain":
		return ConditionRain
	case "drying":
		return ConditionDrying
	default:
		return ConditionDry
	}
}

// DryCondition - track rubbers in, pace improves toward the flag
type DryCondition struct{}

func (c *DryCondition) Apply(lap, totalLaps int, basePace float64) float64 {
	progress := float64(lap) / float64(totalLaps)
	return basePace - 0.8*progress
}

func (c *DryCondition) Name() string {
	return "dry"
}

// HotCondition - track temperature peaks mid-race and hurts pace
type HotCondition struct{}

func (c *HotCondition) Apply(lap, totalLaps int, basePace float64) float64 {
	progress := float64(lap) / float64(totalLaps)
	return basePace + 1.1*math.Sin(math.Pi*progress)
}

func (c *HotCondition) Name() string {
	return "hot"
}

// RainOnsetCondition - rain arrives at 60% distance and ramps in over five laps
type RainOnsetCondition struct{}

func (c *RainOnsetCondition) Apply(lap, totalLaps int, basePace float64) float64 {
	onset := int(float64(totalLaps) * 0.6)
	if lap < onset {
		return basePace
	}

	ramp := float64(lap-onset) / 5.0
	if ramp > 1 {
		ramp = 1
	}
	return basePace + 4.5*ramp
}

func (c *RainOnsetCondition) Name() string {
	return "rain"
}

// DryingCondition - wet start drying out over the first 70% of the race
type DryingCondition struct{}

func (c *DryingCondition) Apply(lap, totalLaps int, basePace float64) float64 {
	progress := float64(lap) / (float64(totalLaps) * 0.7)
	if progress > 1 {
		progress = 1
	}
	return basePace + 5.0*(1-progress)
}

func (c *DryingCondition) Name() string {
	return "drying"
}
