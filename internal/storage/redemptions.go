package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/verdantlabs/ecocycle/internal/common"
	"github.com/verdantlabs/ecocycle/internal/model"
)

// CreateRedemption debits the owner's balance and records the request in one
// transaction. If the balance cannot cover the amount the transaction rolls
// back and nothing changes. On success the request's ID, status, and creation
// time are filled in.
func (s *SQLiteStore) CreateRedemption(ctx context.Context, req *model.RedemptionRequest) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRedemption(req); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var balance int64
	err = tx.QueryRowContext(ctx,
		"SELECT points FROM balances WHERE owner = ?", req.Owner).Scan(&balance)
	if err == sql.ErrNoRows {
		balance = 0
	} else if err != nil {
		return fmt.Errorf("failed to query balance: %w", err)
	}

	if balance < req.Amount {
		return fmt.Errorf("%w: have %d, need %d", common.ErrInsufficientBalance, balance, req.Amount)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE balances SET points = points - ? WHERE owner = ?", req.Amount, req.Owner)
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}

	createdAt := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO redemptions (owner, amount, crypto_type, exchange_rate, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		req.Owner, req.Amount, req.CryptoType, req.ExchangeRate, string(model.RedemptionPending), createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert redemption: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get redemption ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit redemption: %w", err)
	}

	req.ID = id
	req.Status = model.RedemptionPending
	req.CreatedAt = createdAt
	return nil
}

// GetRedemptions returns the owner's redemption requests, most recent first.
func (s *SQLiteStore) GetRedemptions(ctx context.Context, owner string) ([]model.RedemptionRequest, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(owner, "owner"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, amount, crypto_type, exchange_rate, status, created_at
		FROM redemptions
		WHERE owner = ?
		ORDER BY created_at DESC, id DESC`,
		owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query redemptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var requests []model.RedemptionRequest
	for rows.Next() {
		var req model.RedemptionRequest
		var status string
		if err := rows.Scan(&req.ID, &req.Owner, &req.Amount, &req.CryptoType,
			&req.ExchangeRate, &status, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan redemption: %w", err)
		}
		req.Status = model.RedemptionStatus(status)
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate redemptions: %w", err)
	}
	return requests, nil
}
