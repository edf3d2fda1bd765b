package jobs

import (
	"context"
	"time"

	"noteweaver/internal/domain/entity"
	"noteweaver/internal/service"
	"noteweaver/internal/utils"

	"github.com/labstack/gommon/log"
)

// Notifier delivers a due reminder to its author. Delivery transport
// (email, push, ...) is up to the implementation.
type Notifier interface {
	Notify(ctx context.Context, note *entity.Note) error
}

// LogNotifier writes reminders to the server log. Default until a real
// delivery channel is wired up.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, note *entity.Note) error {
	log.Infof("Reminder due for user %d: %s", note.UserID, note)
	return nil
}

// ReminderSweeper periodically scans for due reminders, delivers them and
// latches already_reminded so a reminder never fires twice.
type ReminderSweeper struct {
	noteRepo service.NoteRepository
	notifier Notifier
	interval time.Duration
}

func NewReminderSweeper(noteRepo service.NoteRepository, notifier Notifier, interval time.Duration) *ReminderSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderSweeper{
		noteRepo: noteRepo,
		notifier: notifier,
		interval: interval,
	}
}

func (r *ReminderSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info("Reminder sweeper cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping reminder sweeper...")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one scan. The latch is set before delivery, so a failing
// notifier drops the reminder rather than spamming it on every tick.
func (r *ReminderSweeper) Sweep(ctx context.Context) {
	now := utils.NowUTC()
	notes, err := r.noteRepo.FindDueReminders(now)
	if err != nil {
		log.Errorf("Sweeper: failed to fetch due reminders: %v", err)
		return
	}

	if len(notes) == 0 {
		return
	}

	log.Infof("Sweeper: found %d due reminders", len(notes))

	for _, note := range notes {
		if err := r.noteRepo.MarkReminded(note.ID); err != nil {
			log.Errorf("Sweeper: failed to latch reminder for note %d: %v", note.ID, err)
			continue
		}

		if err := r.notifier.Notify(ctx, note); err != nil {
			log.Errorf("Sweeper: failed to deliver reminder for note %d: %v", note.ID, err)
		}
	}
}
