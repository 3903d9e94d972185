package models

import "time"

// PermissionStatus mirrors the browser push-permission state.
type PermissionStatus string

const (
	PermissionDefault PermissionStatus = "default"
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
)

// Valid reports whether p is a known status.
func (p PermissionStatus) Valid() bool {
	switch p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return true
	}
	return false
}

// NotificationSettings is the per-account notification configuration. There
// is at most one row per user.
type NotificationSettings struct {
	UserID              string           `json:"userId"`
	PushEnabled         bool             `json:"pushEnabled"`
	NewFollower         bool             `json:"newFollower"`
	NewReaction         bool             `json:"newReaction"`
	TrendingContent     bool             `json:"trendingContent"`
	FollowedUserContent bool             `json:"followedUserContent"`
	PermissionStatus    PermissionStatus `json:"permissionStatus"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

// DefaultNotificationSettings is what a user without a stored row gets:
// push off, every event type on, permission not yet asked.
func DefaultNotificationSettings(userID string) *NotificationSettings {
	return &NotificationSettings{
		UserID:              userID,
		PushEnabled:         false,
		NewFollower:         true,
		NewReaction:         true,
		TrendingContent:     true,
		FollowedUserContent: true,
		PermissionStatus:    PermissionDefault,
	}
}
