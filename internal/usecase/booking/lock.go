package booking

import "time"

// staffBucket returns the hour bucket a proposed start falls into, used
// as the second key of the (staff_id, bucket) transaction-scoped
// advisory lock. Buckets are one hour wide: any two bookings whose
// intervals could overlap share at least one bucket, since no service
// bundle is allowed to run longer than a day.
func staffBucket(start time.Time) int64 {
	return start.UTC().Truncate(time.Hour).Unix() / 3600
}

// staffBuckets returns every hour bucket an interval touches, so the
// caller can take every lock that interval could collide under.
func staffBuckets(start, end time.Time) []int64 {
	first := staffBucket(start)
	last := staffBucket(end.Add(-time.Nanosecond))
	if last < first {
		last = first
	}
	buckets := make([]int64, 0, last-first+1)
	for b := first; b <= last; b++ {
		buckets = append(buckets, b)
	}
	return buckets
}
