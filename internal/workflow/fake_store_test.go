package workflow

import (
	"context"

	"github.com/verdantlabs/ecocycle/internal/common"
	"github.com/verdantlabs/ecocycle/internal/model"
)

// fakeStore satisfies the parts of service.Store the workflow never touches.
type fakeStore struct{}

func (fakeStore) SaveProfile(context.Context, *model.UserProfile) error { return nil }

func (fakeStore) GetProfile(context.Context, string) (*model.UserProfile, error) {
	return nil, common.ErrNotFound
}

func (fakeStore) GetLogs(context.Context, string) ([]model.WasteLog, error) { return nil, nil }

func (fakeStore) GetBalance(context.Context, string) (int64, error) { return 0, nil }

func (fakeStore) GetLeaderboardRows(context.Context) ([]model.LeaderboardEntry, error) {
	return nil, nil
}

func (fakeStore) SetCredential(context.Context, string, string) error { return nil }

func (fakeStore) GetCredential(context.Context, string) (string, error) {
	return "", common.ErrNotFound
}

func (fakeStore) RemoveCredential(context.Context, string) error { return nil }

func (fakeStore) CreateRedemption(context.Context, *model.RedemptionRequest) error { return nil }

func (fakeStore) GetRedemptions(context.Context, string) ([]model.RedemptionRequest, error) {
	return nil, nil
}

func (fakeStore) Migrate(context.Context) error { return nil }

func (fakeStore) Close() error { return nil }
