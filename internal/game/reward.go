package game

// Reward is the terminal reward: 1 if any tile reached winExponent, else 0.
// It depends only on the final board, never on the path to it.
func Reward(b Board, winExponent int) float64 {
	if HasWon(b, winExponent) {
		return 1.0
	}
	return 0.0
}

// HasWon reports whether any cell holds at least winExponent.
func HasWon(b Board, winExponent int) bool {
	for _, v := range b.cells {
		if int(v) >= winExponent {
			return true
		}
	}
	return false
}
