package models

import (
	"time"

	"github.com/inkly/inkly/internal/content"
)

// Ink is a piece of user-authored content with its classification attached
// at creation time.
type Ink struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	Body      string       `json:"body"`
	Type      content.Type `json:"type"`
	Tags      []string     `json:"tags"`
	Mood      string       `json:"mood,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}
