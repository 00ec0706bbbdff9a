package deck

import (
	"fmt"
	"math"
	"strings"
)

// CalculateChange compares current against previous. A zero previous value
// reads as a full increase when anything happened in the current period.
func CalculateChange(current, previous float64) Change {
	if previous == 0 {
		if current > 0 {
			return Change{Percent: 100, Direction: DirectionIncrease, Text: "100.0% Increase"}
		}
		return Change{Percent: 0, Direction: DirectionNone, Text: "0.0%"}
	}

	pct := (current - previous) / previous * 100
	direction, word := DirectionIncrease, "Increase"
	if pct < 0 {
		direction, word = DirectionDecrease, "Decrease"
	}

	return Change{
		Percent:   pct,
		Direction: direction,
		Text:      fmt.Sprintf("%.1f%% %s", math.Abs(pct), word),
	}
}

func (c Change) String() string {
	return c.Text
}

// Short returns the percentage without the direction word.
func (c Change) Short() string {
	short, _, _ := strings.Cut(c.Text, " ")
	return short
}
