package kamereon

import (
	"encoding/json"
	"testing"
)

func TestParseDaySchedule(t *testing.T) {
	day, err := ParseDaySchedule("23:30", 120)
	if err != nil {
		t.Fatalf("parse day schedule: %v", err)
	}
	if day.StartTime != "T23:30Z" {
		t.Fatalf("unexpected start time %q", day.StartTime)
	}
	if day.Duration != 120 {
		t.Fatalf("unexpected duration %d", day.Duration)
	}
}

func TestParseDayScheduleRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		clock    string
		duration int
	}{
		{name: "bad_clock", clock: "25:00", duration: 60},
		{name: "missing_minutes", clock: "23", duration: 60},
		{name: "not_a_clock", clock: "midnight", duration: 60},
		{name: "zero_duration", clock: "23:30", duration: 0},
		{name: "negative_duration", clock: "23:30", duration: -15},
		{name: "off_step_duration", clock: "23:30", duration: 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseDaySchedule(tc.clock, tc.duration); err == nil {
				t.Fatalf("expected rejection for %q/%d", tc.clock, tc.duration)
			}
		})
	}
}

func TestStartTimeRoundTrip(t *testing.T) {
	wire, err := FormatStartTime("06:15")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	clock, err := ParseStartTime(wire)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if clock != "06:15" {
		t.Fatalf("expected round trip, got %q", clock)
	}
	if _, err := ParseStartTime("23:30"); err == nil {
		t.Fatalf("expected wire-format rejection")
	}
}

func TestChargeScheduleDayAccess(t *testing.T) {
	day := &DaySchedule{StartTime: "T01:00Z", Duration: 45}
	schedule := &ChargeSchedule{ID: 1, Activated: true}
	if err := schedule.SetDay("wednesday", day); err != nil {
		t.Fatalf("set day: %v", err)
	}
	got, err := schedule.Day("Wednesday")
	if err != nil {
		t.Fatalf("get day: %v", err)
	}
	if got == nil || got.StartTime != "T01:00Z" {
		t.Fatalf("unexpected day entry %+v", got)
	}
	if _, err := schedule.Day("someday"); err == nil {
		t.Fatalf("expected unknown weekday error")
	}
}

func TestChargeScheduleOmitsEmptyDays(t *testing.T) {
	raw, err := json.Marshal(ChargeSchedule{ID: 1, Activated: true, Monday: &DaySchedule{StartTime: "T23:30Z", Duration: 15}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["tuesday"]; ok {
		t.Fatalf("nil day must not serialize")
	}
	if _, ok := decoded["monday"]; !ok {
		t.Fatalf("set day must serialize")
	}
}
