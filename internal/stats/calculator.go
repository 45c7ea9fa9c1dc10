// Package stats derives streak and completion statistics from the progress
// history.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"habit-tracker/backend/internal/models"
)

// Mode selects how streaks are counted.
type Mode string

const (
	// ModeDistinct counts every date with at least one completion as part of
	// the streak, whether or not the dates are adjacent. Current and best
	// streak are therefore always equal. This is the behaviour the web
	// client has always shown.
	ModeDistinct Mode = "distinct"

	// ModeConsecutive counts runs of calendar-adjacent completion dates. The
	// current streak is the run ending at the most recent completion date.
	ModeConsecutive Mode = "consecutive"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDistinct, ModeConsecutive:
		return Mode(s), nil
	case "":
		return ModeDistinct, nil
	default:
		return "", fmt.Errorf("unknown streak mode %q", s)
	}
}

type Calculator struct {
	mode Mode
}

func NewCalculator(mode Mode) *Calculator {
	if mode == "" {
		mode = ModeDistinct
	}
	return &Calculator{mode: mode}
}

func (c *Calculator) Mode() Mode {
	return c.mode
}

// Calculate is total over any history; an empty one yields all zeros.
func (c *Calculator) Calculate(records []models.DailyProgress) models.Stats {
	return Calculate(records, c.mode)
}

func Calculate(records []models.DailyProgress, mode Mode) models.Stats {
	perDate := make(map[string]int)
	total := 0
	for _, r := range records {
		if !r.Completed {
			continue
		}
		total++
		perDate[r.Date]++
	}

	dates := make([]string, 0, len(perDate))
	for d := range perDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var current, best int
	if mode == ModeConsecutive {
		current, best = consecutiveStreaks(dates)
	} else {
		current, best = distinctStreaks(dates, perDate)
	}

	return models.Stats{
		CurrentStreak:  current,
		BestStreak:     best,
		TotalCompleted: total,
		WeeklyAverage:  weeklyAverage(total, len(dates)),
	}
}

// distinctStreaks walks the dates newest first. Every date in perDate has a
// positive count, so the run is never broken and both streaks end up equal
// to the number of distinct dates.
func distinctStreaks(dates []string, perDate map[string]int) (current, best int) {
	run := 0
	for i := len(dates) - 1; i >= 0; i-- {
		if perDate[dates[i]] > 0 {
			run++
			continue
		}
		best = max(best, run)
		run = 0
	}
	best = max(best, run)
	return run, best
}

// consecutiveStreaks expects dates sorted ascending. Dates that do not parse
// start a new run.
func consecutiveStreaks(dates []string) (current, best int) {
	var prev time.Time
	prevOK := false
	run := 0
	for _, d := range dates {
		day, err := time.Parse(models.DateLayout, d)
		if err == nil && prevOK && prev.AddDate(0, 0, 1).Equal(day) {
			run++
		} else {
			run = 1
		}
		prev, prevOK = day, err == nil
		best = max(best, run)
	}
	return run, best
}

func weeklyAverage(total, distinctDates int) int {
	if distinctDates == 0 {
		return 0
	}
	weeks := max(1, int(math.Ceil(float64(distinctDates)/7)))
	return int(math.Round(float64(total) / float64(weeks)))
}
