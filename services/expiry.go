package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lms/models/content"
)

// ExpiryConfig carries the knobs the expiry job needs. It is built once in
// main from the loaded configuration; the job itself never reads the
// environment.
type ExpiryConfig struct {
	LookbackDays int // access-history window for recipient union
	ReminderDays int // "expiring soon" look-ahead window
	PageSize     int // scan page size
}

// ItemError is one failure recorded in the run summary. Run-level entries,
// such as a failed subscription lookup, carry a kind but no id, so the id is
// omitted from the JSON when zero.
type ItemError struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id,omitempty"`
	Err  string `json:"error"`
}

// ExpirySummary is the structured result of one expiry run. The job always
// returns it rather than failing outright, so the scheduler can log and
// alert; only a failed initial scan aborts the run.
type ExpirySummary struct {
	Scanned      int         `json:"scanned"`
	Expired      int         `json:"expired"`
	Skipped      int         `json:"skipped"`
	Errors       int         `json:"errors"`
	ErrorDetails []ItemError `json:"error_details,omitempty"`
}

// ExpiryJob transitions due items to EXPIRED and fans out deduplicated
// notifications. Safe to re-invoke arbitrarily often: already-expired items
// are skipped and notification ids are deterministic.
type ExpiryJob struct {
	Config        ExpiryConfig
	Content       ContentStore
	Subscriptions SubscriptionStore
	Access        AccessHistory
	Fanout        *Fanout
}

// Run scans the full expirable collection once and processes every due item.
// One item's failure never aborts the batch; the only propagated error is a
// scan that could not be started, before any write happened.
func (j *ExpiryJob) Run(now time.Time) (ExpirySummary, error) {
	summary := ExpirySummary{}

	subs, err := j.listSubscribers()
	if err != nil {
		// Degrade to access-history recipients only; recorded, not fatal.
		summary.Errors++
		summary.ErrorDetails = append(summary.ErrorDetails, ItemError{Kind: "SUBSCRIPTIONS", Err: err.Error()})
		subs = nil
	}

	offset := 0
	for {
		page, err := j.Content.ScanExpirable(offset, j.pageSize())
		if err != nil {
			if offset == 0 {
				// Nothing has been written yet; this is the one fatal path.
				return summary, fmt.Errorf("expiry scan failed: %w", err)
			}
			summary.Errors++
			summary.ErrorDetails = append(summary.ErrorDetails, ItemError{Kind: "SCAN", Err: err.Error()})
			break
		}
		if len(page) == 0 {
			break
		}
		for _, item := range page {
			summary.Scanned++
			j.processItem(item, subs, now, &summary)
		}
		offset += len(page)
	}

	return summary, nil
}

func (j *ExpiryJob) processItem(item ExpirableItem, subs []content.Subscription, now time.Time, summary *ExpirySummary) {
	if item.ExpireAt == nil || item.ExpireAt.After(now) {
		summary.Skipped++
		return
	}

	// The state machine re-checks the scanned status, which keeps a rerun or
	// an overlapping run from reprocessing an already-expired item.
	if err := j.expireTransition(item); err != nil {
		summary.Skipped++
		return
	}

	if err := j.Content.MarkExpired(item); err != nil {
		if errors.Is(err, ErrConflict) {
			// Another writer expired it first; their result is equally valid.
			summary.Skipped++
			return
		}
		summary.Errors++
		summary.ErrorDetails = append(summary.ErrorDetails, ItemError{Kind: item.Kind, ID: item.ID, Err: err.Error()})
		return
	}
	summary.Expired++

	j.notifyRecipients(item, subs, EventExpired,
		"Content expired: "+item.Title,
		fmt.Sprintf("%q has expired and is no longer available.", item.Title),
		now)
}

// RunReminders notifies subscribers about items expiring inside the
// look-ahead window. Deterministic ids keep a daily rerun from re-alerting.
func (j *ExpiryJob) RunReminders(now time.Time) (ExpirySummary, error) {
	summary := ExpirySummary{}

	subs, err := j.listSubscribers()
	if err != nil {
		return summary, fmt.Errorf("subscription scan failed: %w", err)
	}

	to := now.AddDate(0, 0, j.reminderDays())
	page, err := j.Content.ScanExpiringBetween(now, to)
	if err != nil {
		return summary, fmt.Errorf("reminder scan failed: %w", err)
	}

	for _, item := range page {
		summary.Scanned++
		if item.ExpireAt == nil {
			summary.Skipped++
			continue
		}
		j.notifyRecipients(item, subs, EventExpiringSoon,
			"Content expiring soon: "+item.Title,
			fmt.Sprintf("%q will expire on %s.", item.Title, item.ExpireAt.Format("January 2, 2006")),
			now)
	}

	return summary, nil
}

// notifyRecipients unions matching subscribers with recent accessors and
// fans the event out once per recipient. Recipient-level failures are
// logged and never fail the item.
func (j *ExpiryJob) notifyRecipients(item ExpirableItem, subs []content.Subscription, event, title, message string, now time.Time) {
	meta := ContentMeta{
		PrimaryCategory:   item.PrimaryCategory,
		SecondaryCategory: item.SecondaryCategory,
		Tags:              content.SplitTags(item.Tags),
	}

	recipients := make(map[uint]bool)
	for _, sub := range subs {
		if !triggerEnabled(sub, event) {
			continue
		}
		if Matches(sub, meta) {
			recipients[sub.UserID] = true
		}
	}

	// Recent accessors are folded in for the expiry event only; reminders go
	// to explicit subscribers alone.
	if event == EventExpired && j.Access != nil {
		since := now.AddDate(0, 0, -j.lookbackDays())
		accessors, err := j.Access.RecentAccessors(item.Kind, item.ID, since)
		if err != nil {
			log.Printf("[EXPIRY] access history lookup failed for %s %d: %v", item.Kind, item.ID, err)
		} else {
			for _, userID := range accessors {
				recipients[userID] = true
			}
		}
	}

	for userID := range recipients {
		id := NotificationID(event, item.Kind, item.ID, userID)
		if _, err := j.Fanout.Notify(userID, id, title, message); err != nil {
			log.Printf("[EXPIRY] notification failed for user %d (%s): %v", userID, id, err)
		}
	}
}

func triggerEnabled(sub content.Subscription, event string) bool {
	switch event {
	case EventExpired:
		return sub.OnExpired
	case EventExpiringSoon:
		return sub.OnExpiringSoon
	case EventNewVersion:
		return sub.OnNewVersion
	}
	return false
}

// expireTransition runs the pure lifecycle transition for the item's kind
func (j *ExpiryJob) expireTransition(item ExpirableItem) error {
	switch item.Kind {
	case content.KindAssetVersion:
		v := content.AssetVersion{Status: item.Status}
		return ExpireVersion(&v)
	case content.KindContentItem:
		ci := content.ContentItem{Status: item.Status}
		return ExpireItem(&ci)
	}
	return &InvalidTransitionError{Current: item.Status, Requested: "expire"}
}

func (j *ExpiryJob) listSubscribers() ([]content.Subscription, error) {
	if j.Subscriptions == nil {
		return nil, nil
	}
	return j.Subscriptions.ListActive()
}

func (j *ExpiryJob) pageSize() int {
	if j.Config.PageSize > 0 {
		return j.Config.PageSize
	}
	return 200
}

func (j *ExpiryJob) lookbackDays() int {
	if j.Config.LookbackDays > 0 {
		return j.Config.LookbackDays
	}
	return 30
}

func (j *ExpiryJob) reminderDays() int {
	if j.Config.ReminderDays > 0 {
		return j.Config.ReminderDays
	}
	return 2
}
