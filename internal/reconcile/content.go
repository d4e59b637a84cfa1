package reconcile

import "strings"

// defaultMarkers are section headers that only appear once a job's detail
// page was actually fetched. A listing-page stub never contains them.
var defaultMarkers = []string{
	"job description",
	"responsibilities",
	"qualifications",
	"requirements",
	"benefits",
	"about the role",
	"what you'll do",
}

// DescriptionComplete reports whether a raw description looks like a fully
// fetched detail page: at least one structural marker (case-insensitive) and
// at least MinCompleteLength characters. A Settings.Complete override, when
// set, replaces this heuristic entirely.
func (s Settings) DescriptionComplete(description string) bool {
	if s.Complete != nil {
		return s.Complete(description)
	}
	if len(description) < s.MinCompleteLength {
		return false
	}
	lower := strings.ToLower(description)
	for _, marker := range s.CompletenessMarkers {
		if marker == "" {
			continue
		}
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// shouldUpgradeRaw applies the one-directional merge rule: a stored skeleton
// may be replaced by a complete description, never the reverse, and a
// complete description is never replaced by a different complete one.
func (s Settings) shouldUpgradeRaw(existingRaw, newRaw string) bool {
	return s.DescriptionComplete(newRaw) && !s.DescriptionComplete(existingRaw)
}
