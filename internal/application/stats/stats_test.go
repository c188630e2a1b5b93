package stats

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vimtodo/core/internal/domain/entities"
)

var now = time.Date(2026, 10, 15, 18, 45, 0, 0, time.UTC)

func completedAt(t time.Time) *time.Time { return &t }

func TestCompute_MixedCollection(t *testing.T) {
	tasks := []entities.Task{
		{ID: "1", Priority: entities.PriorityHigh},
		{ID: "2", Priority: entities.PriorityHigh, Completed: true, CompletedAt: completedAt(now.Add(-time.Hour))},
		{ID: "3", Priority: entities.PriorityMedium},
	}

	s := Compute(tasks, now)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 33, s.Rate)
	assert.Equal(t, "#######-------------", s.ProgressBar)
	assert.Equal(t, []Bucket{
		{Label: "HIGH", Count: 2, Pct: 67},
		{Label: "MED", Count: 1, Pct: 33},
		{Label: "LOW", Count: 0, Pct: 0},
	}, s.Distribution)

	require.Len(t, s.Cells, WindowDays)
	today := s.Cells[WindowDays-1]
	assert.Equal(t, "2026-10-15", today.DateKey)
	assert.Equal(t, 1, today.Count)
	assert.Equal(t, 1, today.Level, "busiest day at or below four keeps its raw count")
	assert.Equal(t, 1, s.TotalCompletedInWindow)
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, now)

	assert.Zero(t, s.Total)
	assert.Zero(t, s.Completed)
	assert.Zero(t, s.Rate)
	assert.Equal(t, strings.Repeat("-", ProgressWidth), s.ProgressBar)
	assert.Empty(t, s.Distribution)
	require.Len(t, s.Cells, WindowDays)
	for _, c := range s.Cells {
		assert.Zero(t, c.Count)
		assert.Zero(t, c.Level)
	}
	assert.Zero(t, s.TotalCompletedInWindow)
}

func TestCompute_WindowBounds(t *testing.T) {
	first := time.Date(2025, 10, 17, 23, 59, 0, 0, time.UTC) // today-363
	beforeWindow := first.Add(-24 * time.Hour)

	s := Compute([]entities.Task{
		{Completed: true, CompletedAt: completedAt(first)},
		{Completed: true, CompletedAt: completedAt(beforeWindow)},
	}, now)

	assert.Equal(t, "2025-10-17", s.Cells[0].DateKey)
	assert.Equal(t, 1, s.Cells[0].Count)
	assert.Equal(t, 1, s.TotalCompletedInWindow)
	assert.Equal(t, "2025-2026", s.YearLabel)
}

func TestCompute_BucketsInLocationOfNow(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	localNow := time.Date(2026, 10, 15, 10, 0, 0, 0, tokyo)

	// 20:00 UTC on the 14th is already the 15th in Tokyo.
	s := Compute([]entities.Task{
		{Completed: true, CompletedAt: completedAt(time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC))},
	}, localNow)

	assert.Equal(t, "2026-10-15", s.Cells[WindowDays-1].DateKey)
	assert.Equal(t, 1, s.Cells[WindowDays-1].Count)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		count, max, want int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{1, 1, 1},
		{3, 4, 3},
		{4, 4, 4},
		{1, 10, 1},
		{3, 10, 2},
		{5, 10, 2},
		{6, 10, 3},
		{8, 10, 4},
		{10, 10, 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.count, tt.max), func(t *testing.T) {
			assert.Equal(t, tt.want, Level(tt.count, tt.max))
		})
	}
}

func TestCompute_LevelScalesAgainstBusiestDay(t *testing.T) {
	var tasks []entities.Task
	for i := 0; i < 8; i++ {
		tasks = append(tasks, entities.Task{Completed: true, CompletedAt: completedAt(now)})
	}
	yesterday := now.AddDate(0, 0, -1)
	tasks = append(tasks, entities.Task{Completed: true, CompletedAt: completedAt(yesterday)})

	s := Compute(tasks, now)

	assert.Equal(t, 4, s.Cells[WindowDays-1].Level)
	assert.Equal(t, 1, s.Cells[WindowDays-2].Level) // ceil(4*1/8)
	assert.Equal(t, 9, s.TotalCompletedInWindow)
}

func TestCompute_Properties(t *testing.T) {
	var tasks []entities.Task
	for i := 0; i < 50; i++ {
		p := []entities.Priority{entities.PriorityHigh, entities.PriorityMedium, entities.PriorityLow}[i%3]
		task := entities.Task{ID: fmt.Sprint(i), Priority: p}
		if i%2 == 0 {
			task.SetCompleted(true, now.AddDate(0, 0, -i*5))
		}
		tasks = append(tasks, task)
	}

	s := Compute(tasks, now)

	assert.GreaterOrEqual(t, s.Rate, 0)
	assert.LessOrEqual(t, s.Rate, 100)
	assert.Len(t, s.ProgressBar, ProgressWidth)
	require.Len(t, s.Cells, WindowDays)
	for _, c := range s.Cells {
		assert.GreaterOrEqual(t, c.Level, 0)
		assert.LessOrEqual(t, c.Level, MaxLevel)
		assert.Equal(t, c.Count == 0, c.Level == 0, c.DateKey)
	}

	pctSum := 0
	for _, b := range s.Distribution {
		pctSum += b.Pct
	}
	assert.InDelta(t, 100, pctSum, 2)

	assert.Equal(t, s, Compute(tasks, now), "same input, same output")
}

func TestMonthLabels(t *testing.T) {
	s := Compute(nil, now)

	require.NotEmpty(t, s.MonthLabels)
	for i, l := range s.MonthLabels {
		start := s.Cells[l.Week*7].DateKey
		day := start[len(start)-2:]
		assert.LessOrEqual(t, day, "07", "week %d starts on %s", l.Week, start)
		if i > 0 {
			assert.NotEqual(t, s.MonthLabels[i-1].Label, l.Label)
			assert.Greater(t, l.Week, s.MonthLabels[i-1].Week)
		}
	}
}

func TestYearLabel_SingleYear(t *testing.T) {
	s := Compute(nil, time.Date(2026, 12, 31, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026", s.YearLabel)
	assert.Equal(t, "2026-01-02", s.Cells[0].DateKey)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("#", 20), ProgressBar(100))
	assert.Equal(t, "#"+strings.Repeat("-", 19), ProgressBar(3)) // 0.6 rounds up
	assert.Equal(t, strings.Repeat("-", 20), ProgressBar(2))
	assert.Equal(t, strings.Repeat("#", 10)+strings.Repeat("-", 10), ProgressBar(50))
}
