package attention

import "time"

// Clock abstracts time for deterministic tests. The real controller runs on
// the wall clock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
