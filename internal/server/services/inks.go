package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkly/inkly/internal/content"
	"github.com/inkly/inkly/internal/server/auth"
	"github.com/inkly/inkly/internal/server/models"
	"github.com/inkly/inkly/internal/server/repositories/repomanager"
)

// BodyFormat selects how an ink body is sanitized.
type BodyFormat string

const (
	// FormatText keeps line breaks, so multi-line bodies can classify as poems.
	FormatText BodyFormat = "text"
	// FormatInline collapses the body to one line.
	FormatInline BodyFormat = "inline"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Analysis is what the content layer makes of a body.
type Analysis struct {
	Body    string          `json:"body"`
	Length  int             `json:"length"`
	Verdict content.Verdict `json:"verdict"`
	Type    content.Type    `json:"type"`
	Tags    []string        `json:"tags"`
	Mood    string          `json:"mood"`
}

type InkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gate        *content.Gate
}

func NewInkService(db *sql.DB, m repomanager.RepositoryManager, gate *content.Gate) *InkService {
	return &InkService{db: db, repomanager: m, gate: gate}
}

func (s *InkService) analyze(body string, format BodyFormat) (*Analysis, error) {
	var clean string
	switch format {
	case "", FormatText:
		clean = content.StripMarkup(body)
	case FormatInline:
		clean = content.SanitizePlainText(body)
	default:
		return nil, &content.ValidationError{
			Field:   "bodyFormat",
			Reasons: []content.Reason{content.ReasonUnknownContentKind},
		}
	}

	tm := content.ExtractTagsAndMood(clean)
	return &Analysis{
		Body:    clean,
		Length:  content.LengthOf(clean),
		Verdict: s.gate.EvaluateKind(clean, content.KindInk),
		Type:    content.Classify(clean),
		Tags:    tm.Tags,
		Mood:    tm.Mood,
	}, nil
}

// Preview runs moderation and classification without persisting anything.
func (s *InkService) Preview(body string, format BodyFormat) (*Analysis, error) {
	return s.analyze(body, format)
}

// Create moderates, classifies and stores a new ink. A rejected body
// returns a *content.ValidationError and writes nothing.
func (s *InkService) Create(ctx context.Context, p auth.Principal, body string, format BodyFormat) (*models.Ink, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	a, err := s.analyze(body, format)
	if err != nil {
		return nil, err
	}
	if err := content.Reject("body", a.Verdict); err != nil {
		return nil, err
	}

	u, err := loadAccount(ctx, s.repomanager.Users(s.db), p)
	if err != nil {
		return nil, err
	}

	ink := &models.Ink{
		ID:     uuid.NewString(),
		UserID: u.ID,
		Body:   a.Body,
		Type:   a.Type,
		Tags:   a.Tags,
		Mood:   a.Mood,
	}
	if err := s.repomanager.Inks(s.db).Create(ctx, ink); err != nil {
		return nil, fmt.Errorf("error creating ink: %w", err)
	}

	return ink, nil
}

// ListByAuthor returns the caller's inks, newest first. limit is clamped to
// [1, MaxListLimit]; zero or less means DefaultListLimit.
func (s *InkService) ListByAuthor(ctx context.Context, p auth.Principal, limit int) ([]*models.Ink, error) {
	u, err := loadAccount(ctx, s.repomanager.Users(s.db), p)
	if err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	inks, err := s.repomanager.Inks(s.db).ListByUser(ctx, u.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing inks: %w", err)
	}
	return inks, nil
}
