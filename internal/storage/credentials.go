package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/verdantlabs/ecocycle/internal/common"
)

// SetCredential stores or replaces the owner's classifier API key.
func (s *SQLiteStore) SetCredential(ctx context.Context, owner, apiKey string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(owner, "owner"); err != nil {
		return err
	}
	if err := validateString(apiKey, "apiKey"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (owner, api_key, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(owner) DO UPDATE SET api_key = excluded.api_key, updated_at = CURRENT_TIMESTAMP`,
		owner, apiKey)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// GetCredential returns the owner's classifier API key, or common.ErrNotFound.
func (s *SQLiteStore) GetCredential(ctx context.Context, owner string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(owner, "owner"); err != nil {
		return "", err
	}

	var apiKey string
	err := s.db.QueryRowContext(ctx,
		"SELECT api_key FROM credentials WHERE owner = ?", owner).Scan(&apiKey)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: credential for %s", common.ErrNotFound, owner)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query credential: %w", err)
	}
	return apiKey, nil
}

// RemoveCredential deletes the owner's classifier API key. Removing a key that
// does not exist is not an error.
func (s *SQLiteStore) RemoveCredential(ctx context.Context, owner string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(owner, "owner"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE owner = ?", owner)
	if err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	return nil
}
