package cleaner

// safetyScore implements the §4.2 formula, clamped to [0, 100].
func safetyScore(droppedEmotional, unrewrittenDangerous, anchorsInjected int) int {
	score := 100 - 10*droppedEmotional - 5*unrewrittenDangerous + 5*anchorsInjected
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
