package scoring

import "math"

const (
	MinLevel = 0
	MaxLevel = 4

	// DefaultRequiredLevel 控制台统一使用的目标水平
	DefaultRequiredLevel = MaxLevel
)

func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// ClampPercent NaN 视为 0
func ClampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
