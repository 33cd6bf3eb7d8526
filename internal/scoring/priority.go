package scoring

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

func (p Priority) String() string {
	return string(p)
}

// Weight 排序用，数值越小越紧急
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High Priority"
	case PriorityMedium:
		return "Medium Priority"
	default:
		return "Low Priority"
	}
}

type PriorityClass struct {
	Key   Priority `json:"key"`
	Label string   `json:"label"`
}

// PriorityFromLevel 缺失或为负数的水平按 LOW 处理，避免误报高优先级
func PriorityFromLevel(level *int) PriorityClass {
	p := PriorityLow
	if level != nil && *level >= MinLevel {
		switch {
		case *level <= 1:
			p = PriorityHigh
		case *level == 2:
			p = PriorityMedium
		}
	}
	return PriorityClass{Key: p, Label: p.Label()}
}
