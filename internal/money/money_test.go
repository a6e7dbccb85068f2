package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	cases := []struct {
		in     float64
		places int32
		want   float64
	}{
		{9.005, 2, 9.01},
		{0.125, 2, 0.13},
		{-0.125, 2, -0.13},
		{4.5, 0, 5},
		{4.49, 0, 4},
		{0.30000000000000004, 2, 0.3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Round(tc.in, tc.places), "Round(%v, %d)", tc.in, tc.places)
	}

	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
}

func TestWholeUnitsAndCents(t *testing.T) {
	assert.Equal(t, 9.0, WholeUnits(8.5))
	assert.Equal(t, 8.0, WholeUnits(8.49))
	assert.Equal(t, 0.36, Cents(0.36000000000000004))
	assert.Equal(t, -0.1, Cents(-0.09999999999999998))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "9.00", Format(9, ""))
	assert.Equal(t, "USD 0.25", Format(0.25, "USD"))
	assert.Equal(t, "EUR -0.10", Format(-0.1, "EUR"))
}
