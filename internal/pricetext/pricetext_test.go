package pricetext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	cases := []struct {
		label string
		want  int64
	}{
		{"900", 900},
		{"900 - 1000", 900},
		{"60 to 70", 60},
		{"₹1,500", 1},     // comma splits the digit run
		{"from 350", 350},
		{"free", 0},
		{"", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Amount(tc.label), "label %q", tc.label)
	}
}

func TestEstimate(t *testing.T) {
	cases := []struct {
		label string
		want  int64
	}{
		{"900", 900},
		{"900 - 1000", 950},
		{"900 to 1000", 950},
		{"60 - 70", 65},
		{"₹1,500", 1500},
		{"Rs. 300 - 400", 350},
		{"free", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Estimate(tc.label), "label %q", tc.label)
	}
}

func TestEstimateTotal(t *testing.T) {
	assert.Equal(t, int64(1015), EstimateTotal([]string{"900 - 1000", "60 to 70"}))
	assert.Equal(t, int64(0), EstimateTotal(nil))
}
