package reconcile

import "time"

// Settings collects every tuning knob of the engine. Construct with
// DefaultSettings and override fields as needed; the zero value is not usable.
type Settings struct {
	// FreshnessWindowDays is how long a job without an explicit expiry stays
	// fresh after its last sighting.
	FreshnessWindowDays int

	// GuardActiveFloor arms the safety guard: with this many active jobs or
	// fewer, deactivation always proceeds (small catalogs churn legitimately).
	GuardActiveFloor int
	// GuardMinFound trips the guard when a run reports fewer jobs than this.
	GuardMinFound int
	// GuardMinRatio trips the guard when found/active falls below it.
	GuardMinRatio float64

	// MinCompleteLength is the minimum character count for a raw description
	// to qualify as complete.
	MinCompleteLength int
	// CompletenessMarkers are section headers whose presence indicates a
	// successfully fetched detail page (matched case-insensitively).
	CompletenessMarkers []string

	// Complete, when non-nil, replaces the built-in completeness predicate.
	// Sources whose extraction pipelines emit different section headers
	// supply their own.
	Complete func(description string) bool

	// Now is the time source. Tests substitute a fixed clock.
	Now func() time.Time
}

// DefaultSettings returns the documented production defaults.
func DefaultSettings() Settings {
	return Settings{
		FreshnessWindowDays: 30,
		GuardActiveFloor:    10,
		GuardMinFound:       10,
		GuardMinRatio:       0.30,
		MinCompleteLength:   500,
		CompletenessMarkers: defaultMarkers,
		Now:                 time.Now,
	}
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
