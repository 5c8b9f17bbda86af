package services

import (
	"fmt"
	"time"

	"lms/models/content"
)

// InvalidTransitionError reports a lifecycle operation requested from a
// state that does not permit it. It is always surfaced to the caller.
type InvalidTransitionError struct {
	Current   string
	Requested string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid lifecycle transition: cannot %s a version in status %s", e.Requested, e.Current)
}

// validFrom lists the statuses each lifecycle operation accepts.
// ARCHIVED is terminal and appears in no entry.
var validFrom = map[string][]string{
	"schedule":  {content.StatusDraft},
	"publish":   {content.StatusDraft, content.StatusScheduled},
	"expire":    {content.StatusPublished},
	"deprecate": {content.StatusPublished},
	"archive":   {content.StatusPublished, content.StatusDeprecated, content.StatusExpired},
}

func checkTransition(op, current string) error {
	for _, s := range validFrom[op] {
		if s == current {
			return nil
		}
	}
	return &InvalidTransitionError{Current: current, Requested: op}
}

// ScheduleVersion moves a draft version to SCHEDULED with a publish time.
// The caller persists the returned value; no I/O happens here.
func ScheduleVersion(v *content.AssetVersion, publishAt time.Time) error {
	if err := checkTransition("schedule", v.Status); err != nil {
		return err
	}
	v.Status = content.StatusScheduled
	v.PublishAt = &publishAt
	return nil
}

// PublishVersion moves a draft or scheduled version to PUBLISHED. The caller
// must also repoint the owning asset's CurrentPublishedVersionID and persist
// both records.
func PublishVersion(v *content.AssetVersion, publishedBy uint, changeLog string, now time.Time) error {
	if err := checkTransition("publish", v.Status); err != nil {
		return err
	}
	v.Status = content.StatusPublished
	v.PublishedBy = &publishedBy
	v.PublishedAt = &now
	v.ChangeLog = changeLog
	v.PublishAt = nil
	return nil
}

// AutoPublishVersion moves a scheduled version to PUBLISHED when its publish
// time arrives. Unlike PublishVersion it only accepts SCHEDULED, keeps the
// change log recorded at scheduling time, and leaves PublishedBy empty to
// mark the transition as system-initiated.
func AutoPublishVersion(v *content.AssetVersion, now time.Time) error {
	if v.Status != content.StatusScheduled {
		return &InvalidTransitionError{Current: v.Status, Requested: "publish"}
	}
	v.Status = content.StatusPublished
	v.PublishedAt = &now
	v.PublishAt = nil
	return nil
}

// ExpireVersion moves a published version to EXPIRED
func ExpireVersion(v *content.AssetVersion) error {
	if err := checkTransition("expire", v.Status); err != nil {
		return err
	}
	v.Status = content.StatusExpired
	return nil
}

// DeprecateVersion moves a published version to DEPRECATED, typically when a
// newer version is published over it
func DeprecateVersion(v *content.AssetVersion) error {
	if err := checkTransition("deprecate", v.Status); err != nil {
		return err
	}
	v.Status = content.StatusDeprecated
	return nil
}

// ArchiveVersion moves a version to the terminal ARCHIVED status
func ArchiveVersion(v *content.AssetVersion) error {
	if err := checkTransition("archive", v.Status); err != nil {
		return err
	}
	v.Status = content.StatusArchived
	return nil
}

// ExpireItem moves an active registry item to EXPIRED. Registry items carry
// a reduced lifecycle but expire through the same scan as asset versions.
func ExpireItem(ci *content.ContentItem) error {
	if ci.Status != content.ItemActive {
		return &InvalidTransitionError{Current: ci.Status, Requested: "expire"}
	}
	ci.Status = content.ItemExpired
	return nil
}
