package core

import "math"

// RoundToFiveMinutes rounds a raw minute count to the nearest multiple
// of five, half away from zero. Both worked duration and break time are
// rounded before netting.
func RoundToFiveMinutes(minutes float64) int {
	return int(math.Round(minutes/5) * 5)
}

// NetWorkedMinutes nets rounded break time out of a rounded duration,
// floored at zero.
func NetWorkedMinutes(durationMinutes, breakMinutes int) int {
	net := durationMinutes - breakMinutes
	if net < 0 {
		return 0
	}
	return net
}
