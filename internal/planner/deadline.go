package planner

import "time"

// toDeadline converts a query's unix-nanosecond deadline (0 = none) into the
// time.Time the RAPTOR engine checks at round boundaries (spec §5).
func toDeadline(unixNs int64) time.Time {
	if unixNs == 0 {
		return time.Time{}
	}
	return time.Unix(0, unixNs)
}
