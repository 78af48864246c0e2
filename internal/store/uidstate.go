package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// LastUID returns the high-water IMAP UID for an account, zero when the
// account has never been polled.
func (d *DB) LastUID(ctx context.Context, account string) (uint32, error) {
	var uid uint32
	err := d.Pool.QueryRowContext(ctx,
		`SELECT last_uid FROM mail_state WHERE account = ?;`, account).Scan(&uid)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return uid, err
}

// SetLastUID advances the high-water mark. Never moves it backwards, so a
// partial run that saw fewer messages cannot cause re-processing gaps.
func (d *DB) SetLastUID(ctx context.Context, account string, uid uint32) error {
	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO mail_state (account, last_uid, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(account) DO UPDATE SET
  last_uid = MAX(last_uid, excluded.last_uid),
  updated_at = excluded.updated_at;`,
		account, uid, time.Now().UTC().Format(time.RFC3339))
	return err
}
