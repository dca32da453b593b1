package db

import (
	"context"
	"fmt"

	"lifesync/internal/models"
)

// GetTracking returns every series in insertion order. A user with no entries gets an empty record.
func (db *PostgresDB) GetTracking(ctx context.Context, userID string) (*models.TrackingRecord, error) {
	query := `
        SELECT metric, entry_date, value
        FROM tracking_entries
        WHERE user_id = $1
        ORDER BY id
    `

	rows, err := db.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracking entries: %w", err)
	}
	defer rows.Close()

	record := &models.TrackingRecord{}
	for rows.Next() {
		var (
			metric string
			entry  models.Entry
		)
		if err := rows.Scan(&metric, &entry.Date, &entry.Value); err != nil {
			return nil, err
		}
		if series := record.Series(models.Metric(metric)); series != nil {
			*series = append(*series, entry)
		}
	}
	return record, rows.Err()
}

// AppendTracking inserts one entry per metric in a single transaction.
func (db *PostgresDB) AppendTracking(ctx context.Context, userID string, entries map[models.Metric]models.Entry) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO tracking_entries (user_id, metric, entry_date, value)
        VALUES ($1, $2, $3, $4)
    `
	// Fixed order keeps ids in the same metric order for every submission.
	for _, metric := range models.Metrics {
		entry, ok := entries[metric]
		if !ok {
			continue
		}
		if _, err := tx.Exec(ctx, query, userID, string(metric), entry.Date, entry.Value); err != nil {
			return fmt.Errorf("failed to insert %s entry: %w", metric, err)
		}
	}

	return tx.Commit(ctx)
}
