package clock

import "time"

// Clock is the single time source used for deadline computation and
// comparison. Everything that reasons about the acceptance window must go
// through the same instance.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by the wall clock.
func System() Clock { return systemClock{} }
