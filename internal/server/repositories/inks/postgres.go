package inks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkly/inkly/internal/dbx"
	"github.com/inkly/inkly/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts ink with its precomputed type, tags and mood. An empty mood
// is stored as NULL.
func (r *PostgresRepository) Create(ctx context.Context, ink *models.Ink) error {
	query :=
		`INSERT INTO inks (id, user_id, body, type, tags, mood)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	mood := sql.NullString{String: ink.Mood, Valid: ink.Mood != ""}
	err := r.db.QueryRowContext(ctx, query, ink.ID, ink.UserID, ink.Body, ink.Type,
		dbx.TextArray(ink.Tags), mood).Scan(&ink.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListByUser returns at most limit inks of userID, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Ink, error) {
	query :=
		`SELECT id, user_id, body, type, tags, mood, created_at
		 FROM inks
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Ink{}
	for rows.Next() {
		ink := &models.Ink{}
		var mood sql.NullString
		if err := rows.Scan(&ink.ID, &ink.UserID, &ink.Body, &ink.Type,
			dbx.ScanTextArray(&ink.Tags), &mood, &ink.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ink.Mood = mood.String
		result = append(result, ink)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
