package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mailharvest-engine/internal/domain"
)

// InsertExtractIgnore records a contact for audit. The unique index on
// dedup_key makes re-runs idempotent.
func (d *DB) InsertExtractIgnore(ctx context.Context, c domain.ExtractedContact) (added bool, err error) {
	_, err = d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO contact_extracts
  (dedup_key, full_name, email, phone, linkedin_id, company_name, location,
   job_position, employment_types, source_email, extraction_source, extracted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		c.DedupKey(), c.Name, c.Email, c.Phone, c.LinkedInID, c.Company, c.Location,
		c.JobPosition, strings.Join(c.EmploymentTypes, ", "), c.SourceEmail,
		c.ExtractionSource, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert extract: %w", err)
	}

	var changes int
	if e := d.Pool.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); e == nil {
		return changes > 0, nil
	}
	return true, nil
}

// KnownEmails returns every email already extracted, for pre-seeding the
// assembler so old contacts are not reported as new.
func (d *DB) KnownEmails(ctx context.Context) ([]string, error) {
	rows, err := d.Pool.QueryContext(ctx, `SELECT email FROM contact_extracts WHERE email != '';`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
