package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flarewatcher/flarewatcher/internal/models"
)

var ErrEntryNotFound = errors.New("ledger entry not found")

const entryColumns = `id, operator_id, zone_id, token_id, record_id, name, type,
	previous_content, previous_ttl, previous_proxied, content, ttl, proxied,
	comment, status, trigger_kind, actor, propagated, propagation_note,
	response, created_at`

// AppendEntry inserts one immutable ledger row and returns its id.
// The id and creation time are assigned here when unset so callers
// can stage entries before knowing the write outcome.
func (s *Store) AppendEntry(ctx context.Context, entry models.LedgerEntry) (
	entryID string, err error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	const query = `INSERT INTO dns_updates (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		$14, $15, $16, $17, $18, $19, $20, $21)`

	_, err = s.db.ExecContext(ctx, query,
		entry.ID, entry.OperatorID, entry.ZoneID, entry.TokenID, entry.RecordID,
		entry.Name, entry.Type, entry.PreviousContent, entry.PreviousTTL,
		entry.PreviousProxied, entry.Content, entry.TTL, entry.Proxied,
		entry.Comment, entry.Status, entry.Trigger, entry.Actor,
		entry.Propagated, entry.PropagationNote, entry.ProviderResponse,
		entry.CreatedAt)
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

// GetEntry returns one ledger entry by id.
func (s *Store) GetEntry(ctx context.Context, entryID string) (
	entry models.LedgerEntry, err error) {
	const query = `SELECT ` + entryColumns + ` FROM dns_updates WHERE id = $1`
	entry, err = scanEntry(s.db.QueryRowContext(ctx, query, entryID))
	if errors.Is(err, sql.ErrNoRows) {
		return entry, fmt.Errorf("%w: id %s", ErrEntryNotFound, entryID)
	}
	return entry, err
}

// ListByActor returns the actor's entries ordered most recent first,
// optionally restricted to entries since the given time.
func (s *Store) ListByActor(ctx context.Context, actor string,
	since *time.Time, limit uint) (entries []models.LedgerEntry, err error) {
	limit = clampLimit(limit)

	query := `SELECT ` + entryColumns + ` FROM dns_updates WHERE actor = $1`
	args := []any{actor}
	if since != nil {
		query += ` AND created_at >= $2`
		args = append(args, *since)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	return s.queryEntries(ctx, query, args...)
}

// LatestPerZone returns the operator's most recent entry for each
// zone, by creation time and not insertion order.
func (s *Store) LatestPerZone(ctx context.Context, operatorID string) (
	entries []models.LedgerEntry, err error) {
	const query = `SELECT DISTINCT ON (zone_id) ` + entryColumns +
		` FROM dns_updates WHERE operator_id = $1
		ORDER BY zone_id, created_at DESC`
	return s.queryEntries(ctx, query, operatorID)
}

// LatestRollbackCandidates returns, for each zone+record pair, the
// most recent entry holding a usable previous state snapshot.
func (s *Store) LatestRollbackCandidates(ctx context.Context, operatorID string) (
	entries []models.LedgerEntry, err error) {
	const query = `SELECT DISTINCT ON (zone_id, record_id) ` + entryColumns +
		` FROM dns_updates WHERE operator_id = $1
		AND previous_content IS NOT NULL AND token_id IS NOT NULL
		ORDER BY zone_id, record_id, created_at DESC`
	return s.queryEntries(ctx, query, operatorID)
}

// DeleteByActor removes every entry belonging to the actor and
// returns how many rows were deleted.
func (s *Store) DeleteByActor(ctx context.Context, actor string) (
	deleted int64, err error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM dns_updates WHERE actor = $1", actor)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) (
	entries []models.LedgerEntry, err error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (entry models.LedgerEntry, err error) {
	var comment, propagationNote, response sql.NullString
	err = row.Scan(&entry.ID, &entry.OperatorID, &entry.ZoneID, &entry.TokenID,
		&entry.RecordID, &entry.Name, &entry.Type, &entry.PreviousContent,
		&entry.PreviousTTL, &entry.PreviousProxied, &entry.Content, &entry.TTL,
		&entry.Proxied, &comment, &entry.Status, &entry.Trigger, &entry.Actor,
		&entry.Propagated, &propagationNote, &response, &entry.CreatedAt)
	if err != nil {
		return entry, err
	}
	entry.Comment = comment.String
	entry.PropagationNote = propagationNote.String
	entry.ProviderResponse = response.String
	return entry, nil
}

func clampLimit(limit uint) uint {
	const defaultLimit, maxLimit = 100, 2000
	switch {
	case limit == 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	}
	return limit
}
