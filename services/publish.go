package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lms/models/content"
)

// PublishSummary is the structured result of one scheduled-publish run
type PublishSummary struct {
	Scanned      int         `json:"scanned"`
	Published    int         `json:"published"`
	Skipped      int         `json:"skipped"`
	Errors       int         `json:"errors"`
	ErrorDetails []ItemError `json:"error_details,omitempty"`
}

// PublishJob moves scheduled versions to PUBLISHED once their publish time
// arrives and fans out deduplicated NEW_VERSION notifications. Safe to
// re-invoke arbitrarily often: versions already published are skipped and
// notification ids are deterministic.
type PublishJob struct {
	Versions      ScheduledVersionStore
	Subscriptions SubscriptionStore
	Fanout        *Fanout
}

// Run publishes every scheduled version whose publish time is at or before
// now. One version's failure never aborts the batch; the only propagated
// error is a scan that could not be started.
func (j *PublishJob) Run(now time.Time) (PublishSummary, error) {
	summary := PublishSummary{}

	due, err := j.Versions.ListDueScheduled(now)
	if err != nil {
		return summary, fmt.Errorf("scheduled publish scan failed: %w", err)
	}
	if len(due) == 0 {
		return summary, nil
	}

	var subs []content.Subscription
	if j.Subscriptions != nil {
		subs, err = j.Subscriptions.ListActive()
		if err != nil {
			// Publishing still proceeds; the lost fanout is recorded.
			summary.Errors++
			summary.ErrorDetails = append(summary.ErrorDetails, ItemError{Kind: "SUBSCRIPTIONS", Err: err.Error()})
			subs = nil
		}
	}

	for _, version := range due {
		summary.Scanned++

		// The pure transition re-checks the scanned status, so a version an
		// admin published by hand between scan and write is skipped here.
		if err := AutoPublishVersion(&version, now); err != nil {
			summary.Skipped++
			continue
		}

		if err := j.Versions.MarkPublished(version, now); err != nil {
			if errors.Is(err, ErrConflict) {
				summary.Skipped++
				continue
			}
			summary.Errors++
			summary.ErrorDetails = append(summary.ErrorDetails, ItemError{Kind: content.KindAssetVersion, ID: version.ID, Err: err.Error()})
			continue
		}
		summary.Published++

		FanoutNewVersion(j.Fanout, subs, version.Asset, version)
	}

	return summary, nil
}

// FanoutNewVersion notifies every subscription whose filter matches the
// published version's asset and whose new-version trigger is on. Recipient
// failures are logged and never fail the publish, which has already been
// persisted.
func FanoutNewVersion(f *Fanout, subs []content.Subscription, asset content.Asset, version content.AssetVersion) {
	meta := ContentMeta{
		PrimaryCategory:   asset.PrimaryCategory,
		SecondaryCategory: asset.SecondaryCategory,
		Tags:              content.SplitTags(asset.Tags),
	}

	title := fmt.Sprintf("New version published: %s", asset.Title)
	message := fmt.Sprintf("Version %d of %q is now live. %s", version.VersionNumber, asset.Title, version.ChangeLog)

	for _, sub := range subs {
		if !sub.OnNewVersion {
			continue
		}
		if !Matches(sub, meta) {
			continue
		}
		id := NotificationID(EventNewVersion, content.KindAssetVersion, version.ID, sub.UserID)
		if _, err := f.Notify(sub.UserID, id, title, message); err != nil {
			log.Printf("[NOTIFY] Failed to notify user %d for version %d: %v", sub.UserID, version.ID, err)
		}
	}
}
