package spaced_repetition

import (
	"time"

	"github.com/example/revtrack/pkg/models"
)

// Schedule implements fixed-ladder spaced repetition over topic rows.
// All methods are pure: "today" is always supplied by the caller.
type Schedule struct {
	// Revision gaps in days, indexed by revision count
	Intervals Intervals
}

// NewSchedule creates a schedule with the default intervals
func NewSchedule() *Schedule {
	return &Schedule{Intervals: DefaultIntervals}
}

// NewScheduleWithIntervals creates a schedule with a custom table
func NewScheduleWithIntervals(iv Intervals) (*Schedule, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	return &Schedule{Intervals: iv}, nil
}

// Update holds the three cells written back after a status change
type Update struct {
	Status          models.Status `json:"status"`
	LastRevisedDate string        `json:"lastRevisedDate"`
	NextDueDate     string        `json:"nextDueDate"`
}

// RevisionUpdate computes the new status, last revised date and next due
// date for a row. It never touches storage.
func (s *Schedule) RevisionUpdate(row models.TopicRow, newStatus models.Status, today time.Time) Update {
	if newStatus != models.StatusRevised {
		return Update{Status: newStatus}
	}

	day := models.CalendarDay(today)
	gap := s.Intervals.GapFor(revisionCount(row))

	return Update{
		Status:          models.StatusRevised,
		LastRevisedDate: models.FormatDate(day),
		NextDueDate:     models.FormatDate(day.AddDate(0, 0, gap)),
	}
}

// revisionCount uses the explicit count when present. Without one, any
// earlier revision counts as one cycle.
func revisionCount(row models.TopicRow) int {
	if n, ok := row.Count(); ok {
		return n
	}
	if row.HasRevisionHistory() {
		return 1
	}
	return 0
}

// DaysSinceStudied returns whole calendar days between the study date and
// today. ok is false when the row has no valid study date.
func DaysSinceStudied(row models.TopicRow, today time.Time) (int, bool) {
	studied, ok := row.StudiedOn()
	if !ok {
		return 0, false
	}

	diff := models.CalendarDay(today).Sub(studied)
	days := int(diff / (24 * time.Hour))
	if diff < 0 && diff%(24*time.Hour) != 0 {
		days--
	}
	return days, true
}

// IsDueToday reports whether today falls exactly on one of the milestones
// counted from the study date
func (s *Schedule) IsDueToday(row models.TopicRow, today time.Time) bool {
	days, ok := DaysSinceStudied(row, today)
	if !ok {
		return false
	}
	return s.Intervals.Contains(days)
}

// IsOverdue reports whether an unrevised topic has missed a milestone
func (s *Schedule) IsOverdue(row models.TopicRow, today time.Time) bool {
	if row.Status != models.StatusNotRevised {
		return false
	}
	days, ok := DaysSinceStudied(row, today)
	if !ok {
		return false
	}
	return s.Intervals.Exceeds(days)
}

// DueToday filters rows due today, preserving order
func (s *Schedule) DueToday(rows []models.TopicRow, today time.Time) []models.TopicRow {
	due := []models.TopicRow{}
	for _, row := range rows {
		if s.IsDueToday(row, today) {
			due = append(due, row)
		}
	}
	return due
}

// Overdue filters overdue rows, preserving order
func (s *Schedule) Overdue(rows []models.TopicRow, today time.Time) []models.TopicRow {
	overdue := []models.TopicRow{}
	for _, row := range rows {
		if s.IsOverdue(row, today) {
			overdue = append(overdue, row)
		}
	}
	return overdue
}
