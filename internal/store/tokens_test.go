package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Store_GetTokenSecret(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		rows := sqlmock.NewRows([]string{"secret"}).AddRow("enc:v1:abc.def.ghi")
		mock.ExpectQuery(`SELECT secret FROM api_tokens WHERE id = \$1 AND operator_id = \$2`).
			WithArgs("token-a", "operator-a").
			WillReturnRows(rows)

		secret, err := s.GetTokenSecret(context.Background(), "operator-a", "token-a")
		require.NoError(t, err)
		assert.Equal(t, "enc:v1:abc.def.ghi", secret)
	})

	t.Run("wrong operator", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery(`SELECT secret FROM api_tokens WHERE id = \$1 AND operator_id = \$2`).
			WithArgs("token-a", "operator-b").
			WillReturnRows(sqlmock.NewRows([]string{"secret"}))

		_, err := s.GetTokenSecret(context.Background(), "operator-b", "token-a")
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})
}

func Test_Store_UpsertToken(t *testing.T) {
	t.Parallel()

	t.Run("existing id", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectExec(`INSERT INTO api_tokens`).
			WithArgs("token-a", "operator-a", "home zone", "secret-value", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		id, err := s.UpsertToken(context.Background(),
			"operator-a", "token-a", "home zone", "secret-value")
		require.NoError(t, err)
		assert.Equal(t, "token-a", id)
	})

	t.Run("generated id", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectExec(`INSERT INTO api_tokens`).
			WithArgs(sqlmock.AnyArg(), "operator-a", "home zone", "secret-value", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		id, err := s.UpsertToken(context.Background(),
			"operator-a", "", "home zone", "secret-value")
		require.NoError(t, err)
		_, err = uuid.Parse(id)
		assert.NoError(t, err)
	})
}
