// services/level.go
package services

// LevelForPoints derives a level from a cumulative point total.
// Total over non-negative inputs: floor(points/100) + 1.
func LevelForPoints(points int64) int {
	if points < 0 {
		points = 0
	}
	return int(points/100) + 1
}

// LevelProgress returns progress toward the next level as a percentage.
// The modulus-100 window divided by a level-scaled denominator is kept
// exactly as shipped; replacing it with a linear formula changes every
// profile response and is tracked separately.
func LevelProgress(points int64) float64 {
	if points < 0 {
		points = 0
	}
	level := LevelForPoints(points)
	progress := float64(points%100) / float64(level*100) * 100
	if progress > 100 {
		progress = 100
	}
	return progress
}
