package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrTokenNotFound = errors.New("token not found")

// GetTokenSecret returns the stored (possibly encrypted) secret of
// the operator's token. Scoping by operator enforces ownership.
func (s *Store) GetTokenSecret(ctx context.Context, operatorID, tokenID string) (
	secret string, err error) {
	const query = `SELECT secret FROM api_tokens WHERE id = $1 AND operator_id = $2`
	err = s.db.QueryRowContext(ctx, query, tokenID, operatorID).Scan(&secret)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: id %s", ErrTokenNotFound, tokenID)
	} else if err != nil {
		return "", err
	}
	return secret, nil
}

// UpsertToken stores a named credential for the operator and returns
// its id, generating one for new tokens.
func (s *Store) UpsertToken(ctx context.Context, operatorID, tokenID, name,
	secret string) (id string, err error) {
	if tokenID == "" {
		tokenID = uuid.NewString()
	}

	const query = `INSERT INTO api_tokens (id, operator_id, name, secret, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, secret = EXCLUDED.secret
		WHERE api_tokens.operator_id = EXCLUDED.operator_id`

	_, err = s.db.ExecContext(ctx, query, tokenID, operatorID, name, secret, time.Now())
	if err != nil {
		return "", err
	}
	return tokenID, nil
}
