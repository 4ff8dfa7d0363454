package assignment

import "fmt"

// UsageCounter counts, per asset, how many ad slots across the graph contain it.
// The count is informational only and never limits assignment.
type UsageCounter struct {
	counts map[string]int
}

func NewUsageCounter() *UsageCounter {
	return &UsageCounter{counts: make(map[string]int)}
}

func (u *UsageCounter) Increment(assetID string) {
	u.counts[assetID]++
}

// Decrement lowers the count. Going below zero is reported as ErrUsageUnderflow and
// leaves the count at zero.
func (u *UsageCounter) Decrement(assetID string) error {
	n := u.counts[assetID]
	if n <= 0 {
		return fmt.Errorf("%w: %s", ErrUsageUnderflow, assetID)
	}
	if n == 1 {
		delete(u.counts, assetID)
		return nil
	}
	u.counts[assetID] = n - 1
	return nil
}

func (u *UsageCounter) Count(assetID string) int {
	return u.counts[assetID]
}

// Snapshot copies the non-zero counts.
func (u *UsageCounter) Snapshot() map[string]int {
	out := make(map[string]int, len(u.counts))
	for k, v := range u.counts {
		out[k] = v
	}
	return out
}
