// Package stats computes the read-only summary shown on the stats page:
// completion rate, priority distribution and a trailing 52-week heat-map.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/vimtodo/core/internal/domain/entities"
)

const (
	// WindowWeeks and WindowDays size the heat-map. Day 0 is today-363.
	WindowWeeks = 52
	WindowDays  = WindowWeeks * 7

	// ProgressWidth is the character width of ProgressBar.
	ProgressWidth = 20

	// MaxLevel is the highest heat-map intensity bucket.
	MaxLevel = 4

	dateKeyLayout = "2006-01-02"
)

// Bucket is one row of the priority distribution.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Pct   int    `json:"pct"`
}

// Cell is one day of the heat-map.
type Cell struct {
	DateKey string `json:"date_key"`
	Count   int    `json:"count"`
	Level   int    `json:"level"`
}

// MonthLabel names the month a heat-map column starts in.
type MonthLabel struct {
	Week  int    `json:"week"`
	Label string `json:"label"`
}

// Summary is the output of Compute.
type Summary struct {
	Total        int      `json:"total"`
	Completed    int      `json:"completed"`
	Rate         int      `json:"rate"`
	ProgressBar  string   `json:"progress_bar"`
	Distribution []Bucket `json:"distribution"`

	Cells                  []Cell       `json:"cells"`
	MonthLabels            []MonthLabel `json:"month_labels"`
	YearLabel              string       `json:"year_label"`
	TotalCompletedInWindow int          `json:"total_completed_in_window"`
}

// Compute summarizes tasks as of now. Days are bucketed in now's location,
// so callers control the calendar by choosing that location.
func Compute(tasks []entities.Task, now time.Time) Summary {
	var s Summary

	var high, med, low int
	for _, t := range tasks {
		s.Total++
		if t.Completed {
			s.Completed++
		}
		switch t.Priority {
		case entities.PriorityHigh:
			high++
		case entities.PriorityMedium:
			med++
		case entities.PriorityLow:
			low++
		}
	}

	s.Rate = percent(s.Completed, s.Total)
	s.ProgressBar = ProgressBar(s.Rate)
	s.Distribution = distribution(high, med, low)

	s.Cells, s.TotalCompletedInWindow = heatMap(tasks, now)
	start := windowStart(now)
	s.MonthLabels = monthLabels(start)
	s.YearLabel = yearLabel(start, start.AddDate(0, 0, WindowDays-1))

	return s
}

// ProgressBar renders rate (0-100) as a fixed-width bar of '#' and '-'.
func ProgressBar(rate int) string {
	filled := roundHalfUp(float64(rate) / 5)
	if filled < 0 {
		filled = 0
	}
	if filled > ProgressWidth {
		filled = ProgressWidth
	}
	return strings.Repeat("#", filled) + strings.Repeat("-", ProgressWidth-filled)
}

// Level maps a day's count to an intensity bucket given the busiest day in
// the window.
func Level(count, max int) int {
	switch {
	case count <= 0:
		return 0
	case max <= MaxLevel:
		return min(MaxLevel, count)
	default:
		// ceil(4*count/max) without floats
		return min(MaxLevel, (MaxLevel*count+max-1)/max)
	}
}

func distribution(high, med, low int) []Bucket {
	sum := high + med + low
	if sum == 0 {
		return []Bucket{}
	}
	return []Bucket{
		{Label: "HIGH", Count: high, Pct: percent(high, sum)},
		{Label: "MED", Count: med, Pct: percent(med, sum)},
		{Label: "LOW", Count: low, Pct: percent(low, sum)},
	}
}

func heatMap(tasks []entities.Task, now time.Time) ([]Cell, int) {
	loc := now.Location()

	daily := make(map[string]int)
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		daily[t.CompletedAt.In(loc).Format(dateKeyLayout)]++
	}

	start := windowStart(now)
	cells := make([]Cell, WindowDays)
	maxCount := 0
	for i := range cells {
		key := dayAt(start, i).Format(dateKeyLayout)
		cells[i] = Cell{DateKey: key, Count: daily[key]}
		maxCount = max(maxCount, cells[i].Count)
	}

	total := 0
	for i := range cells {
		cells[i].Level = Level(cells[i].Count, maxCount)
		total += cells[i].Count
	}
	return cells, total
}

// monthLabels emits a label for every week starting in the first seven days
// of a month. Consecutive repeats of the same label are collapsed.
func monthLabels(start time.Time) []MonthLabel {
	labels := []MonthLabel{}
	for week := 0; week < WindowWeeks; week++ {
		day := dayAt(start, week*7)
		if day.Day() > 7 {
			continue
		}
		label := day.Month().String()[:3]
		if n := len(labels); n > 0 && labels[n-1].Label == label {
			continue
		}
		labels = append(labels, MonthLabel{Week: week, Label: label})
	}
	return labels
}

func yearLabel(start, end time.Time) string {
	if start.Year() == end.Year() {
		return end.Format("2006")
	}
	return start.Format("2006") + "-" + end.Format("2006")
}

// windowStart is local midnight of today-363.
func windowStart(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-(WindowDays-1), 0, 0, 0, 0, now.Location())
}

// dayAt steps by calendar days, not 24h durations, so DST changes never
// shift a cell onto the wrong date.
func dayAt(start time.Time, offset int) time.Time {
	y, m, d := start.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, start.Location())
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return roundHalfUp(float64(part) / float64(whole) * 100)
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
