// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/statement-ingest/pkg/storage"
)

// DefaultSweepSchedule runs the archive sweep daily at 3:00 AM.
const DefaultSweepSchedule = "0 3 * * *"

// Archive is the part of the upload archive the sweep needs.
type Archive interface {
	ListBefore(ctx context.Context, cutoff time.Time) ([]*storage.FileInfo, error)
	Delete(ctx context.Context, userID string, fileID uuid.UUID) error
}

// SweepResult counts the outcome of one retention sweep.
type SweepResult struct {
	Deleted int
	Failed  int
}

// Scheduler deletes archived uploads once they are older than the retention window.
type Scheduler struct {
	cron      *cron.Cron
	archive   Archive
	retention time.Duration
	schedule  string
	now       func() time.Time
	logger    *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(archive Archive, retentionDays int, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		archive:   archive,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		schedule:  DefaultSweepSchedule,
		now:       time.Now,
		logger:    logger,
	}
}

// WithSchedule overrides the sweep's cron expression.
func (s *Scheduler) WithSchedule(spec string) *Scheduler {
	if spec != "" {
		s.schedule = spec
	}
	return s
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("schedule", s.schedule),
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the sweep in the background.
func (s *Scheduler) RunNow() {
	go s.Sweep(context.Background())
}

// Sweep deletes every archived upload created before now minus the retention window. A file that
// fails to delete is counted and the sweep continues.
func (s *Scheduler) Sweep(ctx context.Context) SweepResult {
	cutoff := s.now().Add(-s.retention)
	s.logger.Info("starting archive retention sweep", slog.Time("cutoff", cutoff))

	files, err := s.archive.ListBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to list archived uploads", slog.Any("error", err))
		return SweepResult{}
	}

	var res SweepResult
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		err := s.archive.Delete(ctx, f.UserID, f.ID)
		if err != nil && !errors.Is(err, storage.ErrFileNotFound) {
			s.logger.Warn("failed to delete archived upload",
				slog.String("file_id", f.ID.String()),
				slog.String("user_id", f.UserID),
				slog.Any("error", err),
			)
			res.Failed++
			continue
		}
		res.Deleted++
	}

	s.logger.Info("archive retention sweep completed",
		slog.Int("deleted", res.Deleted),
		slog.Int("failed", res.Failed),
	)
	return res
}
