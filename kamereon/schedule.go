package kamereon

import (
	"fmt"
	"regexp"
	"strings"
)

// ChargeSchedule is one weekly charging plan. Day entries left nil mean "no
// scheduled charge that day"; the remote contract keeps them distinct from a
// zero-duration entry.
type ChargeSchedule struct {
	ID        int          `json:"id"`
	Activated bool         `json:"activated"`
	Monday    *DaySchedule `json:"monday,omitempty"`
	Tuesday   *DaySchedule `json:"tuesday,omitempty"`
	Wednesday *DaySchedule `json:"wednesday,omitempty"`
	Thursday  *DaySchedule `json:"thursday,omitempty"`
	Friday    *DaySchedule `json:"friday,omitempty"`
	Saturday  *DaySchedule `json:"saturday,omitempty"`
	Sunday    *DaySchedule `json:"sunday,omitempty"`
}

// DaySchedule is a charge window: a wire-format start time ("T23:30Z") and a
// duration in minutes.
type DaySchedule struct {
	StartTime string `json:"startTime"`
	Duration  int    `json:"duration"`
}

var scheduleDays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
var wireTimePattern = regexp.MustCompile(`^T([01][0-9]|2[0-3]):([0-5][0-9])Z$`)

// ParseDaySchedule turns a local "HH:MM" clock value and a duration into a
// wire-format day entry. Durations run in 15-minute steps per the remote
// contract.
func ParseDaySchedule(clock string, durationMinutes int) (*DaySchedule, error) {
	startTime, err := FormatStartTime(clock)
	if err != nil {
		return nil, err
	}
	if durationMinutes <= 0 || durationMinutes%15 != 0 {
		return nil, fmt.Errorf("kamereon: charge duration must be a positive multiple of 15 minutes, got %d", durationMinutes)
	}
	return &DaySchedule{
		StartTime: startTime,
		Duration:  durationMinutes,
	}, nil
}

// FormatStartTime converts "HH:MM" into the "THH:MMZ" wire format.
func FormatStartTime(clock string) (string, error) {
	clock = strings.TrimSpace(clock)
	if !clockPattern.MatchString(clock) {
		return "", fmt.Errorf("kamereon: invalid start time %q, expected HH:MM", clock)
	}
	return "T" + clock + "Z", nil
}

// ParseStartTime converts the "THH:MMZ" wire format back into "HH:MM".
func ParseStartTime(wire string) (string, error) {
	wire = strings.TrimSpace(wire)
	matches := wireTimePattern.FindStringSubmatch(wire)
	if matches == nil {
		return "", fmt.Errorf("kamereon: invalid wire start time %q, expected THH:MMZ", wire)
	}
	return matches[1] + ":" + matches[2], nil
}

// Day returns the entry for a lowercase weekday name.
func (s *ChargeSchedule) Day(name string) (*DaySchedule, error) {
	if s == nil {
		return nil, fmt.Errorf("kamereon: schedule is nil")
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "monday":
		return s.Monday, nil
	case "tuesday":
		return s.Tuesday, nil
	case "wednesday":
		return s.Wednesday, nil
	case "thursday":
		return s.Thursday, nil
	case "friday":
		return s.Friday, nil
	case "saturday":
		return s.Saturday, nil
	case "sunday":
		return s.Sunday, nil
	default:
		return nil, fmt.Errorf("kamereon: unknown weekday %q", name)
	}
}

// SetDay replaces the entry for a lowercase weekday name.
func (s *ChargeSchedule) SetDay(name string, day *DaySchedule) error {
	if s == nil {
		return fmt.Errorf("kamereon: schedule is nil")
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "monday":
		s.Monday = day
	case "tuesday":
		s.Tuesday = day
	case "wednesday":
		s.Wednesday = day
	case "thursday":
		s.Thursday = day
	case "friday":
		s.Friday = day
	case "saturday":
		s.Saturday = day
	case "sunday":
		s.Sunday = day
	default:
		return fmt.Errorf("kamereon: unknown weekday %q", name)
	}
	return nil
}

// ScheduleDays lists the weekday names in wire order.
func ScheduleDays() []string {
	return append([]string(nil), scheduleDays...)
}
