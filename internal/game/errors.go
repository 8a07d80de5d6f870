package game

import "errors"

var (
	// ErrOverBound is returned when a board holds an exponent the codec cannot represent.
	ErrOverBound = errors.New("game: cell exceeds codec bound")

	// ErrIDRange is returned when a state id is outside the codec's state space.
	ErrIDRange = errors.New("game: state id out of range")

	// ErrShape is returned for boards whose dimensions do not match.
	ErrShape = errors.New("game: bad board shape")

	// ErrStateSpaceTooLarge is returned when (winMax+1)^(rows*cols) does not fit.
	ErrStateSpaceTooLarge = errors.New("game: state space too large")
)
