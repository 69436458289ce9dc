package bouncer

import "time"

// Clock abstracts the time source so tests can control elapsed time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, which carries a monotonic clock reading.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
