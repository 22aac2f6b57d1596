package usecase

import "time"

// Clock supplies "now" so week arithmetic and validity windows are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production clock.
func SystemClock() Clock { return systemClock{} }
