// Package learning holds the quiz grading, point crediting and completion
// rules. Every operation that credits points does so at most once per
// qualifying event and recomputes the learner's badge in the same transaction.
package learning

import (
	"time"

	"gorm.io/gorm"
)

// DefaultCompletionBonus is credited when a course certificate is first issued.
const DefaultCompletionBonus = 100

// Service runs the learning rules against a gorm database.
type Service struct {
	db              *gorm.DB
	locks           *keyedMutex
	notifier        Notifier
	completionBonus int
	now             func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the receiver of certificate and badge events.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithCompletionBonus overrides the course completion bonus.
func WithCompletionBonus(points int) Option {
	return func(s *Service) {
		if points >= 0 {
			s.completionBonus = points
		}
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service.
func New(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:              db,
		locks:           newKeyedMutex(),
		notifier:        NopNotifier{},
		completionBonus: DefaultCompletionBonus,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
