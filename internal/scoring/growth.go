package scoring

// Growth passes a square's growth progress in [0, 1] straight through as a
// percentage.
func Growth(progress float64) int {
	return ClampPercent(progress * 100)
}
