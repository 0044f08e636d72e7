package messenger

import "time"

// minAttemptTimeout is the floor imposed on the computed per-address,
// per-attempt timeout.
const minAttemptTimeout = 5 * time.Millisecond

// sendAttempts is the number of send attempts made per address before
// giving up on it.
const sendAttempts = 3

// attemptTimeout computes the per-address, per-attempt timeout from the
// remaining budget and the number of resolved addresses: max(5ms,
// budget/n/3).
func attemptTimeout(budget time.Duration, n int) time.Duration {
	if n <= 0 {
		n = 1
	}
	per := budget / time.Duration(n) / sendAttempts
	if per < minAttemptTimeout {
		return minAttemptTimeout
	}
	return per
}
