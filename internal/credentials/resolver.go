package credentials

import (
	"context"
	"errors"
	"fmt"
)

var ErrCredentialMissing = errors.New("credential is missing")

type SecretStore interface {
	GetTokenSecret(ctx context.Context, operatorID, tokenID string) (
		secret string, err error)
}

type Resolver struct {
	store SecretStore
	codec *Codec
}

func NewResolver(store SecretStore, codec *Codec) *Resolver {
	return &Resolver{
		store: store,
		codec: codec,
	}
}

// Resolve returns the plaintext API token for the operator's
// credential id.
func (r *Resolver) Resolve(ctx context.Context, operatorID, tokenID string) (
	secret string, err error) {
	if tokenID == "" {
		return "", fmt.Errorf("%w: no token id given", ErrCredentialMissing)
	}

	stored, err := r.store.GetTokenSecret(ctx, operatorID, tokenID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCredentialMissing, err)
	}

	secret, err = r.codec.Decrypt(stored)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCredentialMissing, err)
	}
	if secret == "" {
		return "", fmt.Errorf("%w: token %s has an empty secret",
			ErrCredentialMissing, tokenID)
	}
	return secret, nil
}
