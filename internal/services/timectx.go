package services

import (
	"strings"
	"time"
)

// TimeContext captures the temporal frame of an interaction for pattern
// learning and prompt building.
type TimeContext struct {
	Now       time.Time
	TimeOfDay string
	DayOfWeek string
	Hour      int
	IsWeekend bool
}

// NewTimeContext buckets the given wall-clock time into a coarse time of day.
func NewTimeContext(now time.Time) TimeContext {
	hour := now.Hour()

	timeOfDay := "night"
	switch {
	case hour >= 5 && hour < 12:
		timeOfDay = "morning"
	case hour >= 12 && hour < 17:
		timeOfDay = "afternoon"
	case hour >= 17 && hour < 21:
		timeOfDay = "evening"
	}

	wd := now.Weekday()

	return TimeContext{
		Now:       now,
		TimeOfDay: timeOfDay,
		DayOfWeek: strings.ToLower(wd.String()),
		Hour:      hour,
		IsWeekend: wd == time.Saturday || wd == time.Sunday,
	}
}
