package queue

import "time"

// DefaultRetrySchedule is the redelivery delay after each failed delivery:
// first failure waits 1s, second 5s, third 10s. A fourth failure
// dead-letters the unit of work.
var DefaultRetrySchedule = []time.Duration{
	1 * time.Second,
	5 * time.Second,
	10 * time.Second,
}

// retryDelay returns the delay before the next delivery given the number of
// failed deliveries so far, or false when the schedule is exhausted.
func retryDelay(schedule []time.Duration, failures int) (time.Duration, bool) {
	if failures < 1 || failures > len(schedule) {
		return 0, false
	}
	return schedule[failures-1], true
}
