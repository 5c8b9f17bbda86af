package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lms/models/content"
)

func TestMatches(t *testing.T) {
	crmContacts := ContentMeta{PrimaryCategory: "CRM", SecondaryCategory: "Contacts"}

	cases := []struct {
		name string
		sub  content.Subscription
		item ContentMeta
		want bool
	}{
		{
			name: "exact category match",
			sub:  content.Subscription{PrimaryCategory: "CRM", SecondaryCategory: "Contacts"},
			item: crmContacts,
			want: true,
		},
		{
			name: "primary wildcard",
			sub:  content.Subscription{PrimaryCategory: "*", SecondaryCategory: "Contacts"},
			item: crmContacts,
			want: true,
		},
		{
			name: "tag mismatch rejects otherwise matching categories",
			sub:  content.Subscription{PrimaryCategory: "CRM", SecondaryCategory: "Contacts", Tags: "sales"},
			item: ContentMeta{PrimaryCategory: "CRM", SecondaryCategory: "Contacts", Tags: []string{"marketing"}},
			want: false,
		},
		{
			name: "tag overlap on any shared tag",
			sub:  content.Subscription{Tags: "sales,onboarding"},
			item: ContentMeta{Tags: []string{"marketing", "onboarding"}},
			want: true,
		},
		{
			name: "empty subscription matches everything",
			sub:  content.Subscription{},
			item: crmContacts,
			want: true,
		},
		{
			name: "primary mismatch",
			sub:  content.Subscription{PrimaryCategory: "HR"},
			item: crmContacts,
			want: false,
		},
		{
			name: "secondary evaluated independently",
			sub:  content.Subscription{PrimaryCategory: "CRM", SecondaryCategory: "Leads"},
			item: crmContacts,
			want: false,
		},
		{
			name: "filter against item with no category never matches",
			sub:  content.Subscription{PrimaryCategory: "CRM"},
			item: ContentMeta{},
			want: false,
		},
		{
			name: "wildcard still requires the item to carry a value",
			sub:  content.Subscription{PrimaryCategory: "*"},
			item: ContentMeta{SecondaryCategory: "Contacts"},
			want: false,
		},
		{
			name: "no declared tags satisfies the tag filter",
			sub:  content.Subscription{PrimaryCategory: "CRM"},
			item: ContentMeta{PrimaryCategory: "CRM", Tags: []string{"sales"}},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(tc.sub, tc.item))
		})
	}
}
