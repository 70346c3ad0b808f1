// Package pension holds the state of the three calculator screens and the
// navigator that moves between them. It has no rendering code; the terminal
// and browser front-ends both drive it.
package pension

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/zus-calculator/pkg/constants"
	"github.com/iwvelando/zus-calculator/pkg/mathutil"
)

// Amount bounds re-exported for front-ends.
const (
	MinAmount     = constants.MinAmount
	MaxAmount     = constants.MaxAmount
	DefaultAmount = constants.DefaultAmount
	SliderStep    = constants.SliderStep
)

// ClampAmount restricts v to [MinAmount, MaxAmount].
func ClampAmount(v int) int {
	return mathutil.Clamp(v, MinAmount, MaxAmount)
}

// ParseAmount reads free text the way a numeric field does: leading
// whitespace and an optional sign, then as many digits as present. Anything
// else reads as 0. The result is always clamped.
func ParseAmount(raw string) int {
	return ClampAmount(parseLeadingInt(raw))
}

func parseLeadingInt(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Only a range error is possible here; saturate in the sign's direction.
		if s[0] == '-' {
			return MinAmount
		}
		return MaxAmount
	}
	return n
}

// StepAmount moves a slider value by steps increments of SliderStep and keeps
// it inside the slider's range.
func StepAmount(current, steps int) int {
	return ClampAmount(current + steps*SliderStep)
}
