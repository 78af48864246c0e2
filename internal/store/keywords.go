package store

import (
	"context"
	"fmt"

	"mailharvest-engine/internal/rules"
)

// KeywordRow mirrors one configured keyword from the API or seed file.
type KeywordRow struct {
	Category  string `json:"category"`
	Keyword   string `json:"keyword"`
	MatchType string `json:"match_type"`
	Action    string `json:"action"`
	Priority  int    `json:"priority"`
	Weight    int    `json:"weight"`
	Target    string `json:"target"`
	Active    bool   `json:"active"`
}

// LoadKeywordRules reads active keywords and groups them into rules.
// Rows sharing category, match type, action, priority, weight and target
// collapse into a single rule carrying all their keywords.
// Implements rules.Loader.
func (d *DB) LoadKeywordRules(ctx context.Context) ([]rules.Rule, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT category, keyword, match_type, action, priority, weight, target
FROM automation_keywords
WHERE active = 1
ORDER BY priority ASC, id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("load keywords: %w", err)
	}
	defer rows.Close()

	type ruleKey struct {
		Category  string
		MatchType string
		Action    string
		Priority  int
		Weight    int
		Target    string
	}
	index := map[ruleKey]int{}
	var out []rules.Rule

	for rows.Next() {
		var k ruleKey
		var keyword string
		if err := rows.Scan(&k.Category, &keyword, &k.MatchType, &k.Action, &k.Priority, &k.Weight, &k.Target); err != nil {
			return nil, err
		}
		i, ok := index[k]
		if !ok {
			out = append(out, rules.Rule{
				Category:  k.Category,
				MatchType: rules.MatchType(k.MatchType),
				Action:    rules.Action(k.Action),
				Priority:  k.Priority,
				Weight:    k.Weight,
				Target:    rules.Target(k.Target),
			})
			i = len(out) - 1
			index[k] = i
		}
		out[i].Keywords = append(out[i].Keywords, keyword)
	}
	return out, rows.Err()
}

// ReplaceKeywords swaps the whole keyword table for a fresh set, typically
// after a sync from the contact API. All or nothing.
func (d *DB) ReplaceKeywords(ctx context.Context, kws []KeywordRow) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM automation_keywords;`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO automation_keywords (category, keyword, match_type, action, priority, weight, target, active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, kw := range kws {
		active := 0
		if kw.Active {
			active = 1
		}
		if kw.MatchType == "" {
			kw.MatchType = "contains"
		}
		if kw.Target == "" {
			kw.Target = "both"
		}
		if kw.Weight == 0 {
			kw.Weight = 1
		}
		if _, err := stmt.ExecContext(ctx, kw.Category, kw.Keyword, kw.MatchType, kw.Action, kw.Priority, kw.Weight, kw.Target, active); err != nil {
			return fmt.Errorf("insert keyword %q/%q: %w", kw.Category, kw.Keyword, err)
		}
	}
	return tx.Commit()
}

// CountKeywords reports how many active keywords are loaded, mainly for
// startup logging.
func (d *DB) CountKeywords(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM automation_keywords WHERE active = 1;`).Scan(&n)
	return n, err
}
