package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bclub/backend/libs/apperr"
	"bclub/backend/services/counter-service/internal/models"
)

func TestComputePriceDefaultTariff(t *testing.T) {
	tariff := models.DefaultTariff()

	tests := []struct {
		name     string
		seconds  int64
		expected int64
	}{
		{"zero duration bills the low floor", 0, 1000},
		{"negative duration bills as zero", -30, 1000},
		{"one minute", 60, 1000},
		{"under low floor", 6 * 60, 1000},
		{"between floors", 8 * 60, 1500},
		{"exactly at mid floor", 10 * 60, 1500},
		{"threshold boundary", 15 * 60, 2250},
		{"past threshold", 20 * 60, 2925},
		{"one hour", 60 * 60, 2250 + 45*135},
		{"partial minute truncates", 15*60 + 30, 2250 + 67},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			price, err := ComputePrice(tc.seconds, tariff)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, price)
		})
	}
}

func TestComputePriceIsMonotonic(t *testing.T) {
	tariff := models.DefaultTariff()
	var prev int64
	for sec := int64(0); sec <= 4*3600; sec += 7 {
		price, err := ComputePrice(sec, tariff)
		require.NoError(t, err)
		require.GreaterOrEqual(t, price, prev, "price dropped at %ds", sec)
		prev = price
	}
}

func TestComputePriceRejectsNegativeTariff(t *testing.T) {
	tariff := models.DefaultTariff()
	tariff.ReducedRatePerMinute = -1

	_, err := ComputePrice(600, tariff)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestComputePriceCustomTariff(t *testing.T) {
	tariff := models.Tariff{
		BaseRatePerMinute:    200,
		ReducedRatePerMinute: 100,
		ThresholdMinutes:     30,
		FloorLow:             0,
		FloorMid:             0,
	}
	price, err := ComputePrice(45*60, tariff)
	require.NoError(t, err)
	assert.Equal(t, int64(30*200+15*100), price)
}
