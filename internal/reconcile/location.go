package reconcile

import (
	"context"
	"log/slog"
	"strings"

	"carejobs/reconciler-service/internal/model"
)

// stateNames maps USPS state codes (50 states + DC) to full names.
// Unknown codes pass through unchanged.
var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"DC": "District of Columbia", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana",
	"IA": "Iowa", "KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana",
	"ME": "Maine", "MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan",
	"MN": "Minnesota", "MS": "Mississippi", "MO": "Missouri", "MT": "Montana",
	"NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey",
	"NM": "New Mexico", "NY": "New York", "NC": "North Carolina",
	"ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon",
	"PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington",
	"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

// FullStateName returns the full name for a USPS state code, or the input
// unchanged when the code is not recognised.
func FullStateName(code string) string {
	if name, ok := stateNames[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// resolveLocation get-or-creates the side-index row for a city/state pair.
// Blank city or state means "no location to index" — nil, no error. Storage
// failures are advisory: they are logged and must never abort the owning
// job's save.
func (s *Service) resolveLocation(ctx context.Context, city, state *string) *model.Location {
	if city == nil || state == nil {
		return nil
	}
	c := strings.TrimSpace(*city)
	st := strings.ToUpper(strings.TrimSpace(*state))
	if c == "" || st == "" {
		return nil
	}

	loc, err := s.store.LocationByCityState(ctx, c, st)
	if err != nil {
		slog.Warn("location lookup failed", "city", c, "state", st, "err", err)
		return nil
	}
	if loc != nil {
		return loc
	}

	loc = &model.Location{City: c, State: st, StateName: FullStateName(st)}
	if err := s.store.CreateLocation(ctx, loc); err != nil {
		slog.Warn("location create failed", "city", c, "state", st, "err", err)
		return nil
	}
	return loc
}
