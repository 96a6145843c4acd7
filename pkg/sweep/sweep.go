// Package sweep runs the recurring price-drop reminder job: scan cart
// rows with an active reminder, email the owner when the stored price has
// reached the threshold, then clear that reminder.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pricescope/pricescope/internal/utils"
	"github.com/pricescope/pricescope/pkg/product"
	"github.com/pricescope/pricescope/pkg/storage"
)

// Store is the slice of the persistence layer the sweep needs.
// *storage.DB satisfies it.
type Store interface {
	ReminderRows(ctx context.Context) ([]storage.Reminder, error)
	ClearReminder(ctx context.Context, userID, identity string) error
}

// Mailer sends one notification email. internal/notify satisfies it.
type Mailer interface {
	Send(to, subject, body string) error
}

// Sweeper wraps robfig/cron and fires RunOnce on a fixed interval.
type Sweeper struct {
	cron     *cron.Cron
	store    Store
	mailer   Mailer
	interval time.Duration
}

func New(store Store, mailer Mailer, interval time.Duration) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		store:    store,
		mailer:   mailer,
		interval: interval,
	}
}

// Start registers the recurring job and also runs one cycle immediately
// so reminders set before a restart are not delayed a full interval.
func (s *Sweeper) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	utils.Log.Infof("sweep: started, interval %s", s.interval)

	go s.RunOnce(ctx)
	return nil
}

// Stop shuts the scheduler down. A cycle already in flight finishes.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	utils.Log.Info("sweep: stopped")
}

// RunOnce executes a single sweep cycle. Per-row failures are logged and
// never abort the cycle; a row deleted mid-sweep just fails its clear and
// is skipped.
func (s *Sweeper) RunOnce(ctx context.Context) {
	rows, err := s.store.ReminderRows(ctx)
	if err != nil {
		utils.Log.Errorf("sweep: loading reminders: %v", err)
		return
	}

	var sent int
	for _, r := range rows {
		if !Due(r.LastPrice, r.ReminderPrice) {
			continue
		}
		subject := fmt.Sprintf("Price drop: %s", r.Title)
		body := fmt.Sprintf(
			"Hi %s,\n\n%s is now %s, at or below your reminder price of %s.\n\n%s\n",
			r.Name, r.Title, product.FormatINR(r.LastPrice), product.FormatINR(r.ReminderPrice), r.Link)
		if err := s.mailer.Send(r.Email, subject, body); err != nil {
			// Keep the reminder so the next cycle retries the send.
			utils.Log.Warnf("sweep: emailing %s about %s: %v", r.Email, r.Identity, err)
			continue
		}
		if err := s.store.ClearReminder(ctx, r.UserID, r.Identity); err != nil {
			utils.Log.Warnf("sweep: clearing reminder %s/%s: %v", r.UserID, r.Identity, err)
			continue
		}
		sent++
	}
	if sent > 0 {
		utils.Log.Infof("sweep: sent %d reminder(s)", sent)
	}
}

// Due reports whether the stored price has reached the reminder
// threshold. Unparseable prices never trigger.
func Due(lastPrice, reminderPrice string) bool {
	last, ok := product.ParsePrice(lastPrice)
	if !ok {
		return false
	}
	threshold, ok := product.ParsePrice(reminderPrice)
	if !ok {
		return false
	}
	return last.LessThanOrEqual(threshold)
}
