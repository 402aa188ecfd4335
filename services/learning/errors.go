package learning

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced learner, lesson, course or
	// enrollment does not exist. Nothing is written when it is returned.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when the operation would duplicate a unique record.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput is the parent of every validation failure.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidQuestion = fmt.Errorf("%w: quiz question", ErrInvalidInput)
	ErrInvalidSchedule = fmt.Errorf("%w: reward schedule", ErrInvalidInput)
	ErrInvalidPeriod   = fmt.Errorf("%w: leaderboard period", ErrInvalidInput)
)

func notFound(what string, id uint) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

// lookupErr turns gorm's missing-row error into ErrNotFound and wraps the rest.
func lookupErr(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what, id)
	}
	return fmt.Errorf("load %s %d: %w", what, id, err)
}
