package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/calendar"
)

func route(id int64, area, weekday string, slot Slot, prefixes string, active bool) RouteArea {
	return RouteArea{
		ID:       snowflake.ID(id),
		Area:     area,
		Weekday:  weekday,
		Slot:     slot,
		Prefixes: prefixes,
		Active:   active,
	}
}

func TestNormalizePostcode(t *testing.T) {
	cases := map[string]string{
		"cf36 5aa":    "CF36 5AA",
		"  CF36  5AA": "CF36 5AA",
		"cf365aa":     "CF365AA",
		"  ":          "",
	}
	for input, want := range cases {
		if got := NormalizePostcode(input); got != want {
			t.Errorf("NormalizePostcode(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMatchOrdersByWeekdayThenSlotThenArea(t *testing.T) {
	// 2024-01-10 is a Wednesday.
	reference := calendar.YMD("2024-01-10")
	catalogue := []RouteArea{
		route(1, "Porthcawl", "Monday", SlotPM, "CF36", true),
		route(2, "Porthcawl", "Monday", SlotAM, "CF36", true),
		route(3, "Nottage", "Monday", SlotAM, "CF36", true),
		route(4, "Pyle", "Tuesday", SlotAny, "CF36", true),
	}

	result, err := Match("cf36 5aa", catalogue, reference)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !result.InArea {
		t.Fatal("expected in-area result")
	}
	if len(result.Matches) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(result.Matches))
	}

	wantAreas := []string{"Nottage", "Porthcawl", "Porthcawl", "Pyle"}
	for i, want := range wantAreas {
		if result.Matches[i].Area != want {
			t.Errorf("match %d area = %q, want %q", i, result.Matches[i].Area, want)
		}
	}
	if result.Matches[0].Slot != SlotAM || result.Matches[1].Slot != SlotAM || result.Matches[2].Slot != SlotPM {
		t.Errorf("slot ordering wrong: %+v", result.Matches)
	}
	if result.Default == nil || result.Default.Area != "Nottage" {
		t.Errorf("default should be the first sorted match, got %+v", result.Default)
	}
}

func TestMatchComputesNextDateFromReference(t *testing.T) {
	// Reference Wednesday 2024-01-10; Monday routes land on 2024-01-15,
	// Wednesday routes on the reference day itself.
	reference := calendar.YMD("2024-01-10")
	catalogue := []RouteArea{
		route(1, "Porthcawl", "Monday", SlotAM, "CF36", true),
		route(2, "Pyle", "Wednesday", SlotAM, "CF33", true),
	}

	monday, err := Match("CF36 5AA", catalogue, reference)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if got := monday.Matches[0].NextDate; got != "2024-01-15" {
		t.Errorf("monday next date = %s, want 2024-01-15", got)
	}

	sameDay, err := Match("CF33 4BB", catalogue, reference)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if got := sameDay.Matches[0].NextDate; got != "2024-01-10" {
		t.Errorf("same-day next date = %s, want 2024-01-10", got)
	}
}

func TestMatchUncoveredPostcodeIsNormalResult(t *testing.T) {
	catalogue := []RouteArea{
		route(1, "Porthcawl", "Monday", SlotAM, "CF36", true),
	}

	result, err := Match("SW1A 1AA", catalogue, "2024-01-10")
	if err != nil {
		t.Fatalf("uncovered postcode must not error: %v", err)
	}
	if result.InArea {
		t.Error("expected out-of-area result")
	}
	if result.Default != nil {
		t.Error("expected nil default")
	}
	if len(result.Matches) != 0 {
		t.Errorf("expected no matches, got %d", len(result.Matches))
	}
}

func TestMatchSkipsInactiveRoutes(t *testing.T) {
	catalogue := []RouteArea{
		route(1, "Porthcawl", "Monday", SlotAM, "CF36", false),
	}

	result, err := Match("CF36 5AA", catalogue, "2024-01-10")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if result.InArea {
		t.Error("inactive routes must not match")
	}
}

func TestMatchMultiplePrefixes(t *testing.T) {
	catalogue := []RouteArea{
		route(1, "Bridgend", "Thursday", SlotAny, "CF31, CF32 ,cf35", true),
	}

	for _, postcode := range []string{"CF31 1AA", "cf32 2bb", "CF35 5CC"} {
		result, err := Match(postcode, catalogue, "2024-01-10")
		if err != nil {
			t.Fatalf("match %s: %v", postcode, err)
		}
		if !result.InArea {
			t.Errorf("expected %s to match", postcode)
		}
	}
}
