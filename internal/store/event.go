package store

import (
	"context"
	"database/sql"
	"fmt"
)

// The global sequence gives every event a single increasing number shared
// across the answer and session event tables, so events of different types
// can be ordered against each other.
//
// Uses raw SQL outside the table descriptors because ent doesn't support
// database-level atomic counters. The increment runs on the caller's Conn, so
// inside InTx it commits or rolls back with the event it numbers.

func initSequence(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.ExecContext(ctx, `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}

// nextSequence atomically returns the next sequence number and increments
// the counter.
func (c *Conn) nextSequence(ctx context.Context) (int64, error) {
	rows, err := c.query(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`, nil)
	if err != nil {
		return 0, persistence("next sequence", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, persistence("next sequence", err)
		}
		return 0, persistence("next sequence", sql.ErrNoRows)
	}
	var seq int64
	if err := rows.Scan(&seq); err != nil {
		return 0, persistence("next sequence", err)
	}
	return seq, nil
}
