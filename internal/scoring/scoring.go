package scoring

import "github.com/cbonnaire/tidyquest/internal/model"

// HighUrgencyBonus is the flat XP bonus granted on top of a high-urgency
// task's points.
const HighUrgencyBonus = 5

// Award returns the XP gained for completing a task worth the given points.
func Award(points int, urgency model.Urgency) int {
	if urgency == model.UrgencyHigh {
		return points + HighUrgencyBonus
	}
	return points
}

// LevelForXP maps accumulated XP to a level. The table jumps at 2000 XP
// (1999 XP is level 5, 2000 XP is level 21); that discontinuity is observable
// behavior and is kept as-is.
func LevelForXP(xp int) int {
	switch {
	case xp >= 2000:
		return xp/100 + 1
	case xp >= 1000:
		return 5
	case xp >= 500:
		return 4
	case xp >= 250:
		return 3
	case xp >= 100:
		return 2
	default:
		return 1
	}
}
