package services

import "lms/models/content"

// ContentMeta is the slice of a content record the subscription matcher
// looks at
type ContentMeta struct {
	PrimaryCategory   string
	SecondaryCategory string
	Tags              []string
}

// Matches reports whether a subscription's filter selects a content item.
// It is a pure predicate evaluated once per (subscription, item) pair during
// a scan, so it stays allocation-light.
func Matches(sub content.Subscription, item ContentMeta) bool {
	if !categoryMatches(sub.PrimaryCategory, item.PrimaryCategory) {
		return false
	}
	if !categoryMatches(sub.SecondaryCategory, item.SecondaryCategory) {
		return false
	}
	return tagsOverlap(content.SplitTags(sub.Tags), item.Tags)
}

// categoryMatches applies one category filter: an empty subscription value
// is no filter at all, the wildcard accepts any item that has a value, and
// a concrete value must match exactly. A filter against an item with no
// value never matches.
func categoryMatches(want, have string) bool {
	if want == "" {
		return true
	}
	if have == "" {
		return false
	}
	return want == content.Wildcard || want == have
}

// tagsOverlap is satisfied when the subscription declares no tags, or when
// at least one declared tag appears on the item (set overlap, not subset)
func tagsOverlap(want, have []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
