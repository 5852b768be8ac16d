// Package tracker exposes topic listing and revision scheduling on top of a
// row-addressed store.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/revtrack/internal/spaced_repetition"
	"github.com/example/revtrack/pkg/models"
)

var (
	// ErrRowNotFound is returned when a row index is outside the sheet
	ErrRowNotFound = errors.New("row not found")
	// ErrInvalidStatus is returned for a status other than Revised / Not Revised
	ErrInvalidStatus = errors.New("invalid status")
	// ErrMissingField is returned when a required topic field is empty
	ErrMissingField = errors.New("missing required field")
)

// Repository is the tabular store behind the tracker.
// Row i of FetchAllRows is stored at sheet row i+2.
type Repository interface {
	FetchAllRows(ctx context.Context) ([][]string, error)
	AppendRow(ctx context.Context, row []string) error
	WriteCells(ctx context.Context, rowIndex int, cells map[int]string) error
}

// Digest groups the topics that need attention on a given day
type Digest struct {
	Date     string            `json:"date"`
	DueToday []models.TopicRow `json:"dueToday"`
	Overdue  []models.TopicRow `json:"overdue"`
}

// Service implements the topic commands and queries
type Service struct {
	repo     Repository
	schedule *spaced_repetition.Schedule
}

// NewService creates a new service instance
func NewService(repo Repository, schedule *spaced_repetition.Schedule) *Service {
	if schedule == nil {
		schedule = spaced_repetition.NewSchedule()
	}
	return &Service{repo: repo, schedule: schedule}
}

// ListTopics returns every topic row in sheet order
func (s *Service) ListTopics(ctx context.Context) ([]models.TopicRow, error) {
	raw, err := s.repo.FetchAllRows(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.TopicRow, len(raw))
	for i, r := range raw {
		rows[i] = models.ParseRow(i, r)
	}
	return rows, nil
}

// ListDueToday returns topics whose study date is exactly a milestone ago
func (s *Service) ListDueToday(ctx context.Context, today time.Time) ([]models.TopicRow, error) {
	rows, err := s.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	logSkipped(rows)
	return s.schedule.DueToday(rows, today), nil
}

// ListOverdue returns unrevised topics that missed a milestone
func (s *Service) ListOverdue(ctx context.Context, today time.Time) ([]models.TopicRow, error) {
	rows, err := s.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	return s.schedule.Overdue(rows, today), nil
}

// Digest returns due and overdue topics from a single fetch
func (s *Service) Digest(ctx context.Context, today time.Time) (*Digest, error) {
	rows, err := s.ListTopics(ctx)
	if err != nil {
		return nil, err
	}

	return &Digest{
		Date:     models.FormatDate(models.CalendarDay(today)),
		DueToday: s.schedule.DueToday(rows, today),
		Overdue:  s.schedule.Overdue(rows, today),
	}, nil
}

// MarkStatus changes a topic's status and writes the recomputed
// status, last revised and next due cells back to the sheet
func (s *Service) MarkStatus(ctx context.Context, rowIndex int, newStatus models.Status, today time.Time) (spaced_repetition.Update, error) {
	if newStatus != models.StatusRevised && newStatus != models.StatusNotRevised {
		return spaced_repetition.Update{}, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	raw, err := s.repo.FetchAllRows(ctx)
	if err != nil {
		return spaced_repetition.Update{}, err
	}
	if rowIndex < 0 || rowIndex >= len(raw) {
		return spaced_repetition.Update{}, fmt.Errorf("%w: index %d", ErrRowNotFound, rowIndex)
	}

	row := models.ParseRow(rowIndex, raw[rowIndex])
	update := s.schedule.RevisionUpdate(row, newStatus, today)

	cells := map[int]string{
		models.FieldStatus:      string(update.Status),
		models.FieldLastRevised: update.LastRevisedDate,
		models.FieldNextDue:     update.NextDueDate,
	}
	if err := s.repo.WriteCells(ctx, rowIndex, cells); err != nil {
		return spaced_repetition.Update{}, err
	}

	log.Printf("Updated row %d: status %q, last revised %q, next due %q",
		rowIndex+2, update.Status, update.LastRevisedDate, update.NextDueDate)
	return update, nil
}

// AddTopic appends a new unrevised topic
func (s *Service) AddTopic(ctx context.Context, subject, topic, notes, dateStudied string) error {
	subject = strings.TrimSpace(subject)
	topic = strings.TrimSpace(topic)
	if subject == "" || topic == "" {
		return fmt.Errorf("%w: subject and topic are required", ErrMissingField)
	}

	row := models.NewTopicRow(subject, topic, strings.TrimSpace(notes), strings.TrimSpace(dateStudied))
	if err := s.repo.AppendRow(ctx, row); err != nil {
		return err
	}

	log.Printf("New topic added: %s / %s", subject, topic)
	return nil
}

func logSkipped(rows []models.TopicRow) {
	for _, r := range rows {
		if _, ok := r.StudiedOn(); !ok {
			log.Printf("Skipping row %d with invalid study date %q", r.Index+2, r.DateStudied)
		}
	}
}
