package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretStore struct {
	secret string
	err    error
}

func (f *fakeSecretStore) GetTokenSecret(_ context.Context,
	_, _ string) (secret string, err error) {
	return f.secret, f.err
}

func Test_Resolver_Resolve(t *testing.T) {
	t.Parallel()

	errStore := errors.New("token not found")

	codec := NewCodec("passphrase")
	encryptedSecret, err := codec.Encrypt("plain-token")
	require.NoError(t, err)

	testCases := map[string]struct {
		store      *fakeSecretStore
		tokenID    string
		secret     string
		errWrapped error
	}{
		"empty token id": {
			store:      &fakeSecretStore{},
			errWrapped: ErrCredentialMissing,
		},
		"store error": {
			store:      &fakeSecretStore{err: errStore},
			tokenID:    "token-a",
			errWrapped: ErrCredentialMissing,
		},
		"empty stored secret": {
			store:      &fakeSecretStore{},
			tokenID:    "token-a",
			errWrapped: ErrCredentialMissing,
		},
		"plaintext stored secret": {
			store:   &fakeSecretStore{secret: "plain-token"},
			tokenID: "token-a",
			secret:  "plain-token",
		},
		"encrypted stored secret": {
			store:   &fakeSecretStore{secret: encryptedSecret},
			tokenID: "token-a",
			secret:  "plain-token",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			resolver := NewResolver(testCase.store, codec)
			secret, err := resolver.Resolve(context.Background(),
				"operator-a", testCase.tokenID)

			assert.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.secret, secret)
		})
	}
}
