package models

import "time"

// DefaultSuggestedAccounts are followed when onboarding names no accounts.
var DefaultSuggestedAccounts = []string{"inkly", "inkly-editors"}

// CommunityPreferences records the accounts and interests picked during
// onboarding. There is at most one row per user.
type CommunityPreferences struct {
	UserID            string    `json:"userId"`
	SuggestedAccounts []string  `json:"suggestedAccounts"`
	Interests         []string  `json:"interests"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
