package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		name  string
		major float64
		want  int64
	}{
		{"whole amount", 50, 5000},
		{"two decimals", 19.99, 1999},
		{"half cent rounds away from zero", 0.005, 1},
		{"float drift amount", 3.00, 300},
		{"zero", 0, 0},
		{"negative clamped", -12.50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToCents(tt.major))
		})
	}
}

func TestFromCents(t *testing.T) {
	assert.Equal(t, 19.99, FromCents(1999))
	assert.Equal(t, 0.0, FromCents(0))
}

func TestRoundUpToIncrement(t *testing.T) {
	tests := []struct {
		name      string
		amount    int64
		increment int64
		want      int64
	}{
		{"rounds up to next multiple", 480, 5000, 5000},
		{"rounds up small increment", 480, 100, 500},
		{"exact multiple unchanged", 5000, 5000, 5000},
		{"zero amount", 0, 100, 0},
		{"zero increment disables rounding", 480, 0, 480},
		{"negative increment disables rounding", 480, -50, 480},
		{"negative amount clamped", -300, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundUpToIncrement(tt.amount, tt.increment))
		})
	}
}

func TestRoundUpToIncrement_Idempotent(t *testing.T) {
	increments := []int64{1, 50, 100, 5000}
	amounts := []int64{0, 1, 99, 480, 4999, 5000, 123456}

	for _, k := range increments {
		for _, x := range amounts {
			once := RoundUpToIncrement(x, k)
			twice := RoundUpToIncrement(once, k)
			assert.Equal(t, once, twice, "rounding twice must equal rounding once (x=%d k=%d)", x, k)
		}
	}
}

func TestRoundUpToIncrement_SmallestMultiple(t *testing.T) {
	increments := []int64{1, 7, 50, 100, 5000}
	amounts := []int64{0, 1, 49, 99, 480, 777, 4999, 5001}

	for _, k := range increments {
		for _, x := range amounts {
			got := RoundUpToIncrement(x, k)
			assert.Zero(t, got%k, "result must be a multiple of the increment")
			assert.GreaterOrEqual(t, got, x, "result must never be below the amount")
			if got >= k {
				assert.Less(t, got-k, x, "result must be the smallest qualifying multiple")
			}
		}
	}
}
