package exporter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero value", input: 0.0, expected: "0"},
		{name: "integral value", input: 150.0, expected: "150"},
		{name: "negative decimal", input: -5.5, expected: "-5.5"},
		{name: "rounded money", input: 35.36, expected: "35.36"},
		{name: "small ratio", input: 1.0 / 3.0, expected: "0.3333333333333333"},
		{name: "NaN is missing", input: math.NaN(), expected: ""},
		{name: "infinity is missing", input: math.Inf(1), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatBool(t *testing.T) {
	assert.Equal(t, "1", formatBool(true))
	assert.Equal(t, "0", formatBool(false))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "2010-12-01 08:26:00", formatTime(time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)))
	assert.Equal(t, "", formatTime(time.Time{}))

	local := time.Date(2010, 12, 1, 23, 30, 0, 0, time.FixedZone("", 5*3600))
	assert.Equal(t, "2010-12-01 23:30:00", formatTime(local), "wall clock is kept")
}
