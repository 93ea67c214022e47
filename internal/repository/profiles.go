package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partyplan/internal/database"
	"partyplan/internal/models"

	"github.com/google/uuid"
)

type ProfileRepository struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID returns nil, nil when the profile does not exist
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, email, full_name, email_notifications
		FROM profiles
		WHERE id = $1`

	err := r.db.GetContext(ctx, profile, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return profile, nil
}
