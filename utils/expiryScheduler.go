package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/services"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// NewExpiryJob builds the content expiry job from the loaded configuration
// and the gorm-backed stores
func NewExpiryJob() *services.ExpiryJob {
	db := database.Database.Db
	return &services.ExpiryJob{
		Config: services.ExpiryConfig{
			LookbackDays: config.AppConfig.ExpiryLookbackDays,
			ReminderDays: config.AppConfig.ExpiryReminderDays,
			PageSize:     config.AppConfig.ExpiryPageSize,
		},
		Content:       &database.GormContentStore{Db: db},
		Subscriptions: &database.GormSubscriptionStore{Db: db},
		Access:        &database.GormAccessHistory{Db: db},
		Fanout: &services.Fanout{
			Store:     &database.GormNotificationStore{Db: db},
			Delivered: DeliverNotification,
		},
	}
}

// NewPublishJob builds the scheduled-publish job from the gorm-backed stores
func NewPublishJob() *services.PublishJob {
	db := database.Database.Db
	return &services.PublishJob{
		Versions:      &database.GormScheduledVersionStore{Db: db},
		Subscriptions: &database.GormSubscriptionStore{Db: db},
		Fanout: &services.Fanout{
			Store:     &database.GormNotificationStore{Db: db},
			Delivered: DeliverNotification,
		},
	}
}

// InitializeExpiryScheduler sets up the content lifecycle schedulers: a
// per-minute pass that takes scheduled versions live, and the daily sweep
// that expires due content and sends reminders
func InitializeExpiryScheduler() {
	log.Println("[EXPIRY-SCHEDULER] Initializing content expiry scheduler...")

	c := cron.New()

	// Take scheduled versions live close to their publish time
	c.AddFunc("* * * * *", func() {
		RunScheduledPublish()
	})

	// Run daily at 2 AM to expire due content and send reminders
	c.AddFunc("0 2 * * *", func() {
		log.Println("[EXPIRY-SCHEDULER] Running daily content expiry sweep...")
		RunExpirySweep()
	})

	c.Start()
	log.Println("[EXPIRY-SCHEDULER] Content expiry scheduler started - publishes every minute, sweeps daily at 2 AM")
}

// RunScheduledPublish executes one scheduled-publish run and logs its
// summary. Quiet when nothing is due, which is the common case.
func RunScheduledPublish() {
	summary, err := NewPublishJob().Run(time.Now())
	if err != nil {
		log.Printf("[EXPIRY-SCHEDULER] Scheduled publish run aborted: %v", err)
		return
	}
	if summary.Scanned == 0 {
		return
	}
	log.Printf("[EXPIRY-SCHEDULER] Scheduled publish run done: scanned=%d published=%d skipped=%d errors=%d",
		summary.Scanned, summary.Published, summary.Skipped, summary.Errors)
}

// RunExpirySweep executes one scheduled-publish catch-up, one expiry run,
// and the expiring-soon reminders, logging each summary
func RunExpirySweep() {
	job := NewExpiryJob()
	runAt := time.Now()

	// Catch any scheduled version still due before expiring content, so a
	// version whose publish and expiry both fell due goes live first
	RunScheduledPublish()

	summary, err := job.Run(runAt)
	if err != nil {
		log.Printf("[EXPIRY-SCHEDULER] Expiry run aborted: %v", err)
	} else {
		log.Printf("[EXPIRY-SCHEDULER] Expiry run done: scanned=%d expired=%d skipped=%d errors=%d",
			summary.Scanned, summary.Expired, summary.Skipped, summary.Errors)
	}

	// Anchor reminders to the day boundary so a rerun later the same day
	// covers the identical window
	reminders, err := job.RunReminders(now.With(runAt).BeginningOfDay())
	if err != nil {
		log.Printf("[EXPIRY-SCHEDULER] Reminder run failed: %v", err)
		return
	}
	log.Printf("[EXPIRY-SCHEDULER] Reminder run done: scanned=%d skipped=%d", reminders.Scanned, reminders.Skipped)
}
