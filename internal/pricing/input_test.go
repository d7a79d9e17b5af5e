package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuantity(t *testing.T) {
	tests := map[string]int{
		"3":    3,
		" 12 ": 12,
		"0":    1,
		"-4":   1,
		"abc":  1,
		"":     1,
		"2.5":  1,
	}
	for raw, want := range tests {
		assert.Equal(t, want, NormalizeQuantity(raw), "input %q", raw)
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := map[string]string{
		"500":    "500",
		"12.5":   "12.5",
		" 0.01 ": "0.01",
		"-1":     "0",
		"x":      "0",
		"":       "0",
	}
	for raw, want := range tests {
		assert.True(t, d(want).Equal(NormalizeAmount(raw)), "input %q", raw)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "112.49", Format(d("112.48875")))
	assert.Equal(t, "1120.00", Format(d("1120")))
	assert.Equal(t, "0.00", Format(d("0")))
}
