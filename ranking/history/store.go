// Package history ranks completion candidates by how often the user picked
// them before. Selections are persisted in SQLite.
package history

import (
	"context"
	"database/sql"
	"strings"

	"github.com/teranos/rankd/db"
	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/proposal"
)

// maxQueryParams keeps lookups below SQLite's bound-parameter limit.
const maxQueryParams = 500

// Key identifies a selectable completion independent of a request.
type Key struct {
	Completion    string
	DeclaringType string
	Kind          proposal.Kind
}

// KeyOf derives the history key of a candidate.
func KeyOf(c proposal.Candidate) Key {
	declaring, _ := c.DeclaringType()
	return Key{Completion: c.Completion, DeclaringType: declaring, Kind: c.Kind}
}

// Store persists selection counts.
type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// Record counts one selection of the candidate.
func (s *Store) Record(ctx context.Context, c proposal.Candidate) error {
	k := KeyOf(c)
	if k.Completion == "" {
		return errors.NewInvalidRequestError("cannot record a selection without completion text")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO completion_selections (completion, declaring_type, kind, count, last_selected_at)
		VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (completion, declaring_type, kind)
		DO UPDATE SET count = count + 1, last_selected_at = CURRENT_TIMESTAMP`,
		k.Completion, k.DeclaringType, int(k.Kind))
	if err != nil {
		if db.IsDatabaseClosed(err) {
			return errors.Wrap(db.ErrDatabaseClosed, err.Error())
		}
		return errors.Wrapf(err, "failed to record selection of %q", k.Completion)
	}
	return nil
}

// Counts returns the selection count of every key that has one.
func (s *Store) Counts(ctx context.Context, keys []Key) (map[Key]int, error) {
	texts := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k.Completion != "" && !seen[k.Completion] {
			seen[k.Completion] = true
			texts = append(texts, k.Completion)
		}
	}

	wanted := make(map[Key]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	counts := make(map[Key]int)
	for start := 0; start < len(texts); start += maxQueryParams {
		end := min(start+maxQueryParams, len(texts))
		if err := s.countChunk(ctx, texts[start:end], wanted, counts); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

func (s *Store) countChunk(ctx context.Context, texts []string, wanted map[Key]bool, counts map[Key]int) error {
	args := make([]any, len(texts))
	for i, t := range texts {
		args[i] = t
	}
	query := `
		SELECT completion, declaring_type, kind, count
		FROM completion_selections
		WHERE completion IN (?` + strings.Repeat(", ?", len(texts)-1) + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to query selection history")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			k    Key
			kind int
			n    int
		)
		if err := rows.Scan(&k.Completion, &k.DeclaringType, &kind, &n); err != nil {
			return errors.Wrap(err, "failed to scan selection")
		}
		k.Kind = proposal.Kind(kind)
		if wanted[k] {
			counts[k] = n
		}
	}
	return rows.Err()
}
