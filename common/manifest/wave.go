package manifest

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// MaxSeed is the exclusive upper bound of the fleet seed space. Every device
// hashes itself into [0, MaxSeed) and a wave with bound B gates the seeds
// below B that no smaller wave already gates.
const MaxSeed uint32 = 2048

// Wave holds back the fleet seeds below Bound until Start. Waves are kept
// sorted by bound and bounds are unique within one update.
type Wave struct {
	Bound uint32    `json:"bound" yaml:"bound"`
	Start time.Time `json:"start" yaml:"start"`
}

// checkWave reports whether inserting or overwriting (bound, start) keeps the
// wave set monotonic. The set is sorted by bound, so comparing against the
// immediate predecessor and successor is sufficient. An existing wave at the
// same bound is the one being overwritten and is excluded.
func (u *Update) checkWave(bound uint32, start time.Time) error {
	i := sort.Search(len(u.Waves), func(i int) bool { return u.Waves[i].Bound >= bound })
	if i > 0 {
		if prev := u.Waves[i-1]; start.Before(prev.Start) {
			return fmt.Errorf("bound %d starting %s would begin before the bound %d wave starting %s: %w",
				bound, start.Format(time.RFC3339), prev.Bound, prev.Start.Format(time.RFC3339), ErrWaveOrderingViolation)
		}
	}
	next := i
	if next < len(u.Waves) && u.Waves[next].Bound == bound {
		next++
	}
	if next < len(u.Waves) {
		if succ := u.Waves[next]; succ.Start.Before(start) {
			return fmt.Errorf("bound %d starting %s would begin after the bound %d wave starting %s: %w",
				bound, start.Format(time.RFC3339), succ.Bound, succ.Start.Format(time.RFC3339), ErrWaveOrderingViolation)
		}
	}
	return nil
}

// setWave inserts or overwrites without validating. Callers run checkWave
// across every affected update first so a rejected call changes nothing.
func (u *Update) setWave(bound uint32, start time.Time) {
	i := sort.Search(len(u.Waves), func(i int) bool { return u.Waves[i].Bound >= bound })
	if i < len(u.Waves) && u.Waves[i].Bound == bound {
		u.Waves[i].Start = start
		return
	}
	u.Waves = slices.Insert(u.Waves, i, Wave{Bound: bound, Start: start})
}

// deleteWave removes the wave at bound, reporting whether one existed.
// Removing a wave cannot break monotonicity, so nothing is re-validated.
func (u *Update) deleteWave(bound uint32) bool {
	i := sort.Search(len(u.Waves), func(i int) bool { return u.Waves[i].Bound >= bound })
	if i < len(u.Waves) && u.Waves[i].Bound == bound {
		u.Waves = slices.Delete(u.Waves, i, i+1)
		return true
	}
	return false
}

// validateWaves checks a complete wave set: bounds inside [0, MaxSeed),
// strictly increasing, with non-decreasing and non-zero start times.
func validateWaves(waves []Wave) error {
	for i, w := range waves {
		if w.Bound >= MaxSeed {
			return fmt.Errorf("wave bound %d is outside [0, %d): %w", w.Bound, MaxSeed, ErrInvalidBound)
		}
		if w.Start.IsZero() {
			return fmt.Errorf("wave bound %d: %w", w.Bound, ErrMissingStartTime)
		}
		if i == 0 {
			continue
		}
		prev := waves[i-1]
		if w.Bound <= prev.Bound {
			return fmt.Errorf("wave bounds %d and %d are out of order: %w", prev.Bound, w.Bound, ErrWaveOrderingViolation)
		}
		if w.Start.Before(prev.Start) {
			return fmt.Errorf("the bound %d wave starts before the bound %d wave: %w", w.Bound, prev.Bound, ErrWaveOrderingViolation)
		}
	}
	return nil
}

// WaveStart returns the start time governing a device at the given fleet
// seed: the start of the first wave whose bound exceeds the seed. The zero
// time means the update is open to the device immediately, which is also the
// answer when the update has no waves past the seed (or none at all).
func (u *Update) WaveStart(seed uint32) time.Time {
	i := sort.Search(len(u.Waves), func(i int) bool { return u.Waves[i].Bound > seed })
	if i == len(u.Waves) {
		return time.Time{}
	}
	return u.Waves[i].Start
}

// Ready reports whether the device at seed may take this update at the given
// time.
func (u *Update) Ready(seed uint32, at time.Time) bool {
	start := u.WaveStart(seed)
	return start.IsZero() || !at.Before(start)
}
