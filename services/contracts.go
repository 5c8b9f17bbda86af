package services

import (
	"errors"
	"time"

	"lms/models"
	"lms/models/content"
	course "lms/models/course"
)

// ErrConflict is returned by a store when a conditional update lost a race
// with another writer. The expiry job treats it as a skip, not an error.
var ErrConflict = errors.New("conditional update conflict")

// ProgressLookup fetches one learner's progress in one course. A nil record
// with a nil error means no progress exists yet.
type ProgressLookup func(userID, courseID uint) (*course.CourseProgress, error)

// ExpirableItem is the flattened view of a record that participates in the
// expiry scan, either an asset version or a legacy registry item.
type ExpirableItem struct {
	Kind              string // content.KindAssetVersion or content.KindContentItem
	ID                uint
	Title             string
	Status            string
	PrimaryCategory   string
	SecondaryCategory string
	Tags              string
	ExpireAt          *time.Time
}

// ContentStore abstracts the expiry job's reads and conditional writes so
// the table scan can later be swapped for an indexed query.
type ContentStore interface {
	// ScanExpirable pages through items whose kind participates in expiry.
	// An empty result marks the end of the collection.
	ScanExpirable(offset, limit int) ([]ExpirableItem, error)
	// ScanExpiringBetween returns items whose expiry falls inside [from, to).
	ScanExpiringBetween(from, to time.Time) ([]ExpirableItem, error)
	// MarkExpired conditionally moves the item from its scanned status to
	// expired. Returns ErrConflict if another writer got there first.
	MarkExpired(item ExpirableItem) error
}

// ScheduledVersionStore feeds the scheduled-publish job. ListDueScheduled
// returns versions, with their asset loaded, whose publish time has arrived;
// MarkPublished conditionally persists the publish and everything that hangs
// off it (prior-version deprecation, asset pointer, history), returning
// ErrConflict if the version already left SCHEDULED.
type ScheduledVersionStore interface {
	ListDueScheduled(now time.Time) ([]content.AssetVersion, error)
	MarkPublished(v content.AssetVersion, now time.Time) error
}

// SubscriptionStore lists candidate subscriptions for notification fanout
type SubscriptionStore interface {
	ListActive() ([]content.Subscription, error)
}

// AccessHistory resolves which users recently accessed or cited an item
type AccessHistory interface {
	RecentAccessors(itemKind string, itemID uint, since time.Time) ([]uint, error)
}

// NotificationStore persists notifications keyed by their deterministic id.
// CreateIfAbsent must return the existing record unchanged, with created
// false, when the id is already present.
type NotificationStore interface {
	CreateIfAbsent(n models.Notification) (created models.Notification, fresh bool, err error)
}
