package service

import "math"

// PointToEuroRate converts euro amounts into points: 10 points per euro.
// Shared by the flipper curve and the news-article tap rewards so points and
// euros always move together at the same rate.
const PointToEuroRate = 10.0

// Arkaning wrong-answer penalty. Unlike the flipper curve this is not read
// from the lesson config.
// TODO: read the wrong-answer penalty from ArkaningConfig once the lesson
// editor exposes it.
const (
	arkaningWrongPoints = -50
	arkaningWrongEuros  = -50.0
)

const flipperMinThreshold = 3

// flipperEuros maps attempts-to-match onto the euro reward step function:
// first attempt pays 10, second pays 5, up to the threshold pays 1, and
// every attempt beyond the threshold costs 5.
func flipperEuros(attempts, threshold int) float64 {
	if threshold < flipperMinThreshold {
		threshold = flipperMinThreshold
	}

	switch {
	case attempts <= 1:
		return 10
	case attempts == 2:
		return 5
	case attempts <= threshold:
		return 1
	default:
		return -5 * float64(attempts-threshold)
	}
}

// pointsFromEuros converts a euro delta into points, rounded to nearest.
func pointsFromEuros(euros float64) int {
	return int(math.Round(euros * PointToEuroRate))
}
