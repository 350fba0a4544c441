package generation

import (
	"fmt"
	"strings"

	"openlearner_backend/internal/model"
	"openlearner_backend/internal/util"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

var tiers = []Difficulty{Beginner, Intermediate, Advanced}

// ParseDifficulty 空值视为 intermediate，其它未知取值返回 ValidationError
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Intermediate, nil
	case Beginner, Intermediate, Advanced:
		return d, nil
	default:
		return "", util.NewValidationError("difficulty",
			fmt.Sprintf("Invalid difficulty %q, expected beginner, intermediate or advanced", s))
	}
}

// normalize 生成关卡时对未知难度宽松处理
func normalize(d Difficulty) Difficulty {
	parsed, err := ParseDifficulty(string(d))
	if err != nil {
		return Intermediate
	}
	return parsed
}

// AdjustDifficulty too_hard 降一档、too_easy 升一档，两端封顶
func AdjustDifficulty(d Difficulty, feedback model.FeedbackDifficulty) Difficulty {
	d = normalize(d)
	idx := 0
	for i, t := range tiers {
		if t == d {
			idx = i
		}
	}

	switch feedback {
	case model.TooHard:
		if idx > 0 {
			idx--
		}
	case model.TooEasy:
		if idx < len(tiers)-1 {
			idx++
		}
	}
	return tiers[idx]
}

// xpRange 每个难度建议的单关经验值区间
func xpRange(d Difficulty) (int, int) {
	switch normalize(d) {
	case Beginner:
		return 50, 80
	case Advanced:
		return 120, 150
	default:
		return 80, 120
	}
}
