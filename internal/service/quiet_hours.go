package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QuietHoursDecision is the outcome of gating a dispatch against a
// campaign's do-not-contact window.
type QuietHoursDecision struct {
	Deferred bool
	// ResumeAt is the next permitted instant. Only set when Deferred.
	ResumeAt time.Time
}

// EvaluateQuietHours decides whether dispatch is permitted at the given
// instant. start and end are "HH:MM" local wall-clock bounds; quiet hours
// are disabled unless both are present.
//
// For a normal window (start < end) the instant is quiet iff
// start <= m < end. For a wraparound window (start >= end, e.g.
// 22:00-07:00) it is quiet iff m >= start or m < end. When deferred,
// ResumeAt is today's occurrence of end, or tomorrow's if already past.
func EvaluateQuietHours(start, end *string, now time.Time) (QuietHoursDecision, error) {
	if start == nil || end == nil {
		return QuietHoursDecision{}, nil
	}

	s, err := parseWallClock(*start)
	if err != nil {
		return QuietHoursDecision{}, fmt.Errorf("quiet_start: %w", err)
	}
	e, err := parseWallClock(*end)
	if err != nil {
		return QuietHoursDecision{}, fmt.Errorf("quiet_end: %w", err)
	}

	m := now.Hour()*60 + now.Minute()

	var quiet bool
	if s < e {
		quiet = s <= m && m < e
	} else {
		quiet = m >= s || m < e
	}

	if !quiet {
		return QuietHoursDecision{}, nil
	}

	resume := time.Date(now.Year(), now.Month(), now.Day(), e/60, e%60, 0, 0, now.Location())
	if !resume.After(now) {
		resume = resume.Add(24 * time.Hour)
	}

	return QuietHoursDecision{Deferred: true, ResumeAt: resume}, nil
}

// parseWallClock parses "HH:MM" into minutes of day
func parseWallClock(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid wall-clock time %q", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid wall-clock time %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid wall-clock time %q", value)
	}

	return hour*60 + minute, nil
}
