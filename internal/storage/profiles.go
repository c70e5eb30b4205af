package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/verdantlabs/ecocycle/internal/common"
	"github.com/verdantlabs/ecocycle/internal/model"
)

// SaveProfile inserts or updates the display profile for a principal.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (principal, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(principal) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		profile.Principal, profile.Name, now, now)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile returns the profile for a principal, or common.ErrNotFound.
func (s *SQLiteStore) GetProfile(ctx context.Context, principal string) (*model.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(principal, "principal"); err != nil {
		return nil, err
	}

	var profile model.UserProfile
	err := s.db.QueryRowContext(ctx, `
		SELECT principal, name, created_at, updated_at
		FROM profiles WHERE principal = ?`,
		principal).Scan(&profile.Principal, &profile.Name, &profile.CreatedAt, &profile.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: profile for %s", common.ErrNotFound, principal)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &profile, nil
}
