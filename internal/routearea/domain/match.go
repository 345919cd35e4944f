package domain

import (
	"sort"
	"strings"

	"github.com/othomas555/arocwaste/internal/calendar"
)

// RouteMatch is one catalogue route that covers a postcode, with the first
// collection date computed from the reference date.
type RouteMatch struct {
	RouteAreaID string       `json:"route_area_id"`
	Area        string       `json:"area"`
	Weekday     string       `json:"weekday"`
	Slot        Slot         `json:"slot"`
	NextDate    calendar.YMD `json:"next_date"`
}

// MatchResult is the full outcome of a postcode check. An uncovered postcode
// is a normal result, never an error.
type MatchResult struct {
	InArea   bool         `json:"in_area"`
	Postcode string       `json:"postcode"`
	Matches  []RouteMatch `json:"matches"`
	Default  *RouteMatch  `json:"default,omitempty"`
}

// NormalizePostcode uppercases, trims, and collapses internal whitespace to
// single spaces.
func NormalizePostcode(postcode string) string {
	return strings.Join(strings.Fields(strings.ToUpper(postcode)), " ")
}

// Match returns every active route whose configured prefixes cover the
// postcode, ordered by weekday, slot, then area name. The first match after
// that sort is the default written onto new subscriptions. Pure: the caller
// supplies the catalogue and the reference date.
func Match(postcode string, catalogue []RouteArea, reference calendar.YMD) (MatchResult, error) {
	normalized := NormalizePostcode(postcode)
	result := MatchResult{Postcode: normalized, Matches: []RouteMatch{}}
	if normalized == "" {
		return result, nil
	}

	for _, route := range catalogue {
		if !route.Active {
			continue
		}
		if !matchesPrefix(normalized, route.PrefixList()) {
			continue
		}
		nextDate, err := calendar.NextWeekday(reference, route.Weekday)
		if err != nil {
			return MatchResult{}, err
		}
		result.Matches = append(result.Matches, RouteMatch{
			RouteAreaID: route.ID.String(),
			Area:        route.Area,
			Weekday:     route.Weekday,
			Slot:        NormalizeSlot(string(route.Slot)),
			NextDate:    nextDate,
		})
	}

	if len(result.Matches) == 0 {
		return result, nil
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		a, b := result.Matches[i], result.Matches[j]
		ai, _ := calendar.WeekdayIndex(a.Weekday)
		bi, _ := calendar.WeekdayIndex(b.Weekday)
		if ai != bi {
			return ai < bi
		}
		if a.Slot.Index() != b.Slot.Index() {
			return a.Slot.Index() < b.Slot.Index()
		}
		return a.Area < b.Area
	})

	result.InArea = true
	result.Default = &result.Matches[0]
	return result, nil
}

func matchesPrefix(postcode string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(postcode, prefix) {
			return true
		}
	}
	return false
}
