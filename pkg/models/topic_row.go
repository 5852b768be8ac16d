package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status is the review state of a topic
type Status string

const (
	StatusNotRevised Status = "Not Revised"
	StatusRevised    Status = "Revised"
)

// Field positions inside a raw sheet row
const (
	FieldSubject = iota
	FieldTopic
	FieldStatus
	FieldLastRevised
	FieldNotes
	FieldDateStudied
	FieldNextDue
	fieldReserved
	FieldRevisionCount
)

// DateLayout is the calendar date format stored in the sheet
const DateLayout = "2006-01-02"

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// TopicRow represents one study topic stored as a sheet row
type TopicRow struct {
	Index           int    `json:"rowIndex"`
	Subject         string `json:"subject"`
	Topic           string `json:"topic"`
	Status          Status `json:"status"`
	LastRevisedDate string `json:"lastRevisedDate"`
	Notes           string `json:"notes"`
	DateStudied     string `json:"dateStudied"`
	NextDueDate     string `json:"nextDueDate"`
	RevisionCount   *int   `json:"revisionCount,omitempty"`
}

// ParseRow builds a TopicRow from raw cell values.
// Missing trailing cells are treated as empty; it never fails.
// Status and dateStudied are kept verbatim so padded values fail the
// exact status and date checks.
func ParseRow(index int, raw []string) TopicRow {
	exact := func(pos int) string {
		if pos < len(raw) {
			return raw[pos]
		}
		return ""
	}
	cell := func(pos int) string {
		return strings.TrimSpace(exact(pos))
	}

	row := TopicRow{
		Index:           index,
		Subject:         cell(FieldSubject),
		Topic:           cell(FieldTopic),
		Status:          Status(exact(FieldStatus)),
		LastRevisedDate: cell(FieldLastRevised),
		Notes:           cell(FieldNotes),
		DateStudied:     exact(FieldDateStudied),
		NextDueDate:     cell(FieldNextDue),
	}

	if n, err := strconv.Atoi(cell(FieldRevisionCount)); err == nil {
		row.RevisionCount = &n
	}

	return row
}

// NewTopicRow returns the raw cells for a freshly added topic
func NewTopicRow(subject, topic, notes, dateStudied string) []string {
	return []string{subject, topic, string(StatusNotRevised), "", notes, dateStudied}
}

// StudiedOn returns the study date at midnight UTC.
// ok is false when the cell does not hold a YYYY-MM-DD value.
func (r TopicRow) StudiedOn() (time.Time, bool) {
	return ParseDate(r.DateStudied)
}

// Count returns the explicit revision count, if the row has one
func (r TopicRow) Count() (int, bool) {
	if r.RevisionCount == nil {
		return 0, false
	}
	return *r.RevisionCount, true
}

// HasRevisionHistory reports whether the topic was revised before
func (r TopicRow) HasRevisionHistory() bool {
	return r.LastRevisedDate != ""
}

// ParseDate parses a YYYY-MM-DD string. Out-of-range components roll
// over into the following month or year, so "2024-02-30" is March 1st.
func ParseDate(s string) (time.Time, bool) {
	if !isoDate.MatchString(s) {
		return time.Time{}, false
	}

	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[5:7])
	day, _ := strconv.Atoi(s[8:10])

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// CalendarDay truncates t to midnight UTC of its calendar date in t's location
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
