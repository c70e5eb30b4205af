package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/verdantlabs/ecocycle/internal/model"
)

// LogWaste appends a waste log entry and credits the owner's balance in one
// transaction. The entry ID is assigned by the database and is monotonic;
// entries are never updated or deleted afterwards. The awarded points are
// computed here so the stored entry and the balance credit can never disagree.
func (s *SQLiteStore) LogWaste(ctx context.Context, owner string, category model.WasteCategory, method model.DisposalMethod, quantity float64) (*model.WasteLog, int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if err := validateLogEntry(owner, category, method, quantity); err != nil {
		return nil, 0, err
	}

	points := s.calculator.Points(category, method, quantity)
	loggedAt := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO waste_logs (owner, category, method, quantity, points, logged_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		owner, string(category), string(method), quantity, points, loggedAt)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to insert waste log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get log ID: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO balances (owner, points) VALUES (?, ?)
		ON CONFLICT(owner) DO UPDATE SET points = points + excluded.points`,
		owner, points)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to credit balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit waste log: %w", err)
	}

	return &model.WasteLog{
		ID:        id,
		Owner:     owner,
		Category:  category,
		Method:    method,
		Quantity:  quantity,
		Timestamp: loggedAt,
	}, points, nil
}

// GetLogs returns the owner's waste logs, most recent first.
func (s *SQLiteStore) GetLogs(ctx context.Context, owner string) ([]model.WasteLog, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(owner, "owner"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, category, method, quantity, logged_at
		FROM waste_logs
		WHERE owner = ?
		ORDER BY logged_at DESC, id DESC`,
		owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query waste logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanLogs(rows)
}

func scanLogs(rows *sql.Rows) ([]model.WasteLog, error) {
	var logs []model.WasteLog
	for rows.Next() {
		var log model.WasteLog
		var category, method string
		if err := rows.Scan(&log.ID, &log.Owner, &category, &method, &log.Quantity, &log.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan waste log: %w", err)
		}
		log.Category = model.WasteCategory(category)
		log.Method = model.DisposalMethod(method)
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate waste logs: %w", err)
	}
	return logs, nil
}

// GetBalance returns the owner's reward point balance, zero for unknown users.
func (s *SQLiteStore) GetBalance(ctx context.Context, owner string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(owner, "owner"); err != nil {
		return 0, err
	}

	var points int64
	err := s.db.QueryRowContext(ctx,
		"SELECT points FROM balances WHERE owner = ?", owner).Scan(&points)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query balance: %w", err)
	}
	return points, nil
}

// GetLeaderboardRows returns one row per participant with at least one log or
// balance, carrying total points and total log count. Ordering is left to the
// ranker.
func (s *SQLiteStore) GetLeaderboardRows(ctx context.Context) ([]model.LeaderboardEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.owner, b.points, COUNT(w.id)
		FROM balances b
		LEFT JOIN waste_logs w ON w.owner = b.owner
		GROUP BY b.owner`)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var entry model.LeaderboardEntry
		if err := rows.Scan(&entry.User, &entry.Points, &entry.WasteLogged); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard rows: %w", err)
	}
	return entries, nil
}
