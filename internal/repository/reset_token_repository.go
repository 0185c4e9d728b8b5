package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ResetTokenRepo persists password reset tokens (single 'token_hash' column).
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Store inserts a reset token hash row.
func (r *ResetTokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_resets (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp.UTC())
	return err
}

// ConsumeTx marks an unused, unexpired token as used and returns the user
// it belongs to.  ErrNotFound covers unknown, expired and spent tokens.
func (r *ResetTokenRepo) ConsumeTx(ctx context.Context, tx *sql.Tx, tokenHash string, now time.Time) (uint64, error) {
	now = now.UTC()
	var id, userID uint64
	err := tx.QueryRowContext(ctx,
		"SELECT id, user_id FROM password_resets WHERE token_hash=? AND used_at IS NULL AND expires_at > ? LIMIT 1",
		tokenHash, now).Scan(&id, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE password_resets SET used_at=? WHERE id=? AND used_at IS NULL", now, id)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}
	return userID, nil
}

// RevokeAllForUser spends every outstanding token of a user.
func (r *ResetTokenRepo) RevokeAllForUser(ctx context.Context, q Querier, userID uint64, now time.Time) error {
	_, err := q.ExecContext(ctx,
		"UPDATE password_resets SET used_at=? WHERE user_id=? AND used_at IS NULL",
		now.UTC(), userID)
	return err
}
