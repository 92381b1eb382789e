package anomaly

import "math"

// Threshold is the absolute deviation from the author's own average above
// which a rating counts as suspicious.
//
// TODO: revisit with product; on a 1-5 scale a deviation above 3 is only
// reachable from extreme baselines (average near 1 or 5), so this rarely
// fires for natural rating distributions.
const Threshold = 3.0

// IsSuspicious measures the candidate rating against the author's own
// history rather than a global average, since averages legitimately vary
// across vendors. No history means no baseline and no signal.
func IsSuspicious(rating int, history []int) bool {
	if len(history) == 0 {
		return false
	}

	sum := 0
	for _, r := range history {
		sum += r
	}
	avg := float64(sum) / float64(len(history))

	return math.Abs(float64(rating)-avg) > Threshold
}
