package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/revtrack/internal/tracker"
)

// DefaultDigestTime is when the daily digest is sent
const DefaultDigestTime = "08:00"

// digestTimeout bounds one digest run including the store round trip
const digestTimeout = 30 * time.Second

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    DigestSource
	notifier  Notifier
	loc       *time.Location
	at        string
}

// DigestSource builds the daily digest
type DigestSource interface {
	Digest(ctx context.Context, today time.Time) (*tracker.Digest, error)
}

// Notifier interface for sending notifications
type Notifier interface {
	SendDigest(ctx context.Context, digest *tracker.Digest) error
}

// New creates a new scheduler instance running in loc
func New(source DigestSource, notifier Notifier, loc *time.Location, at string) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if at == "" {
		at = DefaultDigestTime
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		source:    source,
		notifier:  notifier,
		loc:       loc,
		at:        at,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	s.scheduler.SingletonModeAll()
	if _, err := s.scheduler.Every(1).Day().At(s.at).Do(s.sendDigest); err != nil {
		return err
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	log.Printf("Daily digest scheduled at %s (%s)", s.at, s.loc)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if err := s.RunManualCheck(ctx); err != nil {
		log.Printf("Error sending digest: %v", err)
	}
}

// RunManualCheck builds today's digest and sends it when anything needs attention
func (s *Scheduler) RunManualCheck(ctx context.Context) error {
	digest, err := s.source.Digest(ctx, time.Now().In(s.loc))
	if err != nil {
		return err
	}

	if len(digest.DueToday) == 0 && len(digest.Overdue) == 0 {
		log.Printf("Nothing due on %s, skipping digest", digest.Date)
		return nil
	}

	return s.notifier.SendDigest(ctx, digest)
}

// LogNotifier writes digests to the standard logger
type LogNotifier struct{}

// SendDigest logs one line per due and overdue topic
func (LogNotifier) SendDigest(ctx context.Context, digest *tracker.Digest) error {
	log.Printf("Digest for %s: %d due, %d overdue", digest.Date, len(digest.DueToday), len(digest.Overdue))
	for _, r := range digest.DueToday {
		log.Printf("  due: %s - %s (studied %s)", r.Subject, r.Topic, r.DateStudied)
	}
	for _, r := range digest.Overdue {
		log.Printf("  overdue: %s - %s (studied %s)", r.Subject, r.Topic, r.DateStudied)
	}
	return nil
}
