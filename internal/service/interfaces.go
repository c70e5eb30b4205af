// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/verdantlabs/ecocycle/internal/model"
)

// Store defines the contract for the data actor backing the engine. The engine
// only ever consumes this interface; the SQLite implementation in
// internal/storage is one provider of it.
type Store interface {
	// Profile operations
	SaveProfile(ctx context.Context, profile *model.UserProfile) error
	GetProfile(ctx context.Context, principal string) (*model.UserProfile, error)

	// Waste log operations. LogWaste assigns a monotonic entry ID, credits the
	// owner's balance atomically, and returns the stored entry plus the points
	// awarded for it.
	LogWaste(ctx context.Context, owner string, category model.WasteCategory, method model.DisposalMethod, quantity float64) (*model.WasteLog, int64, error)
	GetLogs(ctx context.Context, owner string) ([]model.WasteLog, error)

	// Balance operations
	GetBalance(ctx context.Context, owner string) (int64, error)

	// Leaderboard rows: one per participant with at least one log or balance.
	GetLeaderboardRows(ctx context.Context) ([]model.LeaderboardEntry, error)

	// Classifier credential operations
	SetCredential(ctx context.Context, owner, apiKey string) error
	GetCredential(ctx context.Context, owner string) (string, error)
	RemoveCredential(ctx context.Context, owner string) error

	// Redemption operations. CreateRedemption debits the balance atomically and
	// fails without side effects when the balance is insufficient.
	CreateRedemption(ctx context.Context, req *model.RedemptionRequest) error
	GetRedemptions(ctx context.Context, owner string) ([]model.RedemptionRequest, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
