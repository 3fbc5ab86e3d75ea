package service

import "bclub/backend/services/counter-service/internal/models"

// ComputePrice bills a metered duration against tariff t, in millimes.
//
// Minutes up to the threshold are billed at the base rate and the remainder at the reduced rate,
// each part truncated toward zero. The result is then raised to FloorLow when below it, or to
// FloorMid when below that. Negative durations bill as zero.
func ComputePrice(durationSeconds int64, t models.Tariff) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	minutes := float64(durationSeconds) / 60
	threshold := float64(t.ThresholdMinutes)

	var price int64
	if minutes <= threshold {
		price = int64(minutes * float64(t.BaseRatePerMinute))
	} else {
		price = int64(threshold * float64(t.BaseRatePerMinute))
		price += int64((minutes - threshold) * float64(t.ReducedRatePerMinute))
	}

	switch {
	case price < t.FloorLow:
		price = t.FloorLow
	case price < t.FloorMid:
		price = t.FloorMid
	}
	return price, nil
}
