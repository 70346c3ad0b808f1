package pension

import (
	"strconv"
	"testing"
	"testing/quick"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{"Default", "3000", 3000},
		{"Lower bound", "500", 500},
		{"Upper bound", "50000", 50000},
		{"Below minimum", "499", 500},
		{"Above maximum", "50001", 50000},
		{"Zero", "0", 500},
		{"Negative", "-2500", 500},
		{"Explicit plus", "+7000", 7000},
		{"Leading whitespace", "  4200", 4200},
		{"Trailing garbage", "4200zł", 4200},
		{"Decimal truncates", "4200.99", 4200},
		{"Exponent stops at e", "1e5", 500},
		{"Empty", "", 500},
		{"Letters", "abc", 500},
		{"Sign only", "-", 500},
		{"Overflow positive", "999999999999999999999999", 50000},
		{"Overflow negative", "-999999999999999999999999", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.raw); got != tt.expected {
				t.Errorf("ParseAmount(%q) = %d, expected %d", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestParseAmountClampsEveryInteger(t *testing.T) {
	property := func(v int) bool {
		return ParseAmount(strconv.Itoa(v)) == ClampAmount(v)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestParseAmountNonNumericIsMinimum(t *testing.T) {
	for _, raw := range []string{"abc", "zł", "x100", ".5", "--1", "\t", "NaN"} {
		if got := ParseAmount(raw); got != MinAmount {
			t.Errorf("ParseAmount(%q) = %d, expected %d", raw, got, MinAmount)
		}
	}
}

func TestStepAmount(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		steps    int
		expected int
	}{
		{"Step up", 3000, 1, 3100},
		{"Step down", 3000, -1, 2900},
		{"Stops at minimum", 500, -1, 500},
		{"Stops at maximum", 50000, 3, 50000},
		{"Large jump", 3000, 10, 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepAmount(tt.current, tt.steps); got != tt.expected {
				t.Errorf("StepAmount(%d, %d) = %d, expected %d", tt.current, tt.steps, got, tt.expected)
			}
		})
	}
}
