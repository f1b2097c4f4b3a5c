package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flarewatcher/flarewatcher/internal/credentials"
	"github.com/flarewatcher/flarewatcher/internal/models"
	"github.com/flarewatcher/flarewatcher/internal/reconciler"
	"github.com/flarewatcher/flarewatcher/internal/store"
)

type fakeRunner struct {
	updateRecord  models.MonitoredRecord
	updateTTL     uint32
	updateProxied *bool
	updateComment string
	updateResult  reconciler.UpdateResult
	updateErr     error
	reconcileErrs []error
	current       netip.Addr
	previous      netip.Addr
}

func (r *fakeRunner) ManualUpdate(_ context.Context, record models.MonitoredRecord,
	ttl uint32, proxied *bool, comment string) (reconciler.UpdateResult, error) {
	r.updateRecord = record
	r.updateTTL = ttl
	r.updateProxied = proxied
	r.updateComment = comment
	return r.updateResult, r.updateErr
}

func (r *fakeRunner) ForceReconcile(_ context.Context) []error {
	return r.reconcileErrs
}

func (r *fakeRunner) IPState() (current, previous netip.Addr) {
	return r.current, r.previous
}

type fakeRunnerSource struct {
	runner *fakeRunner
	err    error
}

func (s *fakeRunnerSource) Runner(_ context.Context, _ string) (Runner, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.runner, nil
}

type fakeRollbacker struct {
	request reconciler.RollbackRequest
	result  reconciler.UpdateResult
	err     error
}

func (r *fakeRollbacker) Rollback(_ context.Context,
	request reconciler.RollbackRequest) (reconciler.UpdateResult, error) {
	r.request = request
	return r.result, r.err
}

type fakeLedgerStore struct {
	actor   string
	since   *time.Time
	limit   uint
	entries []models.LedgerEntry
	deleted int64
	err     error
}

func (s *fakeLedgerStore) ListByActor(_ context.Context, actor string,
	since *time.Time, limit uint) ([]models.LedgerEntry, error) {
	s.actor = actor
	s.since = since
	s.limit = limit
	return s.entries, s.err
}

func (s *fakeLedgerStore) LatestPerZone(_ context.Context, _ string) (
	[]models.LedgerEntry, error) {
	return s.entries, s.err
}

func (s *fakeLedgerStore) LatestRollbackCandidates(_ context.Context, _ string) (
	[]models.LedgerEntry, error) {
	return s.entries, s.err
}

func (s *fakeLedgerStore) DeleteByActor(_ context.Context, actor string) (
	int64, error) {
	s.actor = actor
	return s.deleted, s.err
}

type fakeSettingsStore struct {
	settings models.OperatorSettings
	getErr   error
	upserted *models.OperatorSettings
}

func (s *fakeSettingsStore) GetSettings(_ context.Context, _ string) (
	models.OperatorSettings, error) {
	if s.upserted != nil {
		return *s.upserted, nil
	}
	return s.settings, s.getErr
}

func (s *fakeSettingsStore) UpsertSettings(_ context.Context,
	settings models.OperatorSettings) error {
	s.upserted = &settings
	return nil
}

type fakeTokenStore struct {
	operatorID string
	tokenID    string
	name       string
	secret     string
	id         string
	err        error
}

func (s *fakeTokenStore) UpsertToken(_ context.Context, operatorID, tokenID,
	name, encryptedSecret string) (string, error) {
	s.operatorID = operatorID
	s.tokenID = tokenID
	s.name = name
	s.secret = encryptedSecret
	return s.id, s.err
}

type fakeCodec struct{}

func (c *fakeCodec) Encrypt(value string) (string, error) {
	return "enc:v1:" + value, nil
}

func (c *fakeCodec) Decrypt(value string) (string, error) {
	return strings.TrimPrefix(value, "enc:v1:"), nil
}

type nopLogger struct{}

func (l *nopLogger) Info(string)  {}
func (l *nopLogger) Warn(string)  {}
func (l *nopLogger) Error(string) {}

type handlerParts struct {
	runner      *fakeRunner
	runners     *fakeRunnerSource
	rollbacker  *fakeRollbacker
	ledgerStore *fakeLedgerStore
	settings    *fakeSettingsStore
	tokens      *fakeTokenStore
}

func newTestHandler(t *testing.T) (http.Handler, *handlerParts) {
	t.Helper()
	parts := &handlerParts{
		runner:      &fakeRunner{},
		rollbacker:  &fakeRollbacker{},
		ledgerStore: &fakeLedgerStore{},
		settings:    &fakeSettingsStore{getErr: store.ErrSettingsNotFound},
		tokens:      &fakeTokenStore{id: "token-a"},
	}
	parts.runners = &fakeRunnerSource{runner: parts.runner}
	handler := NewHandler("", parts.runners, parts.rollbacker,
		parts.ledgerStore, parts.settings, parts.tokens, &fakeCodec{},
		prometheus.NewRegistry(), &nopLogger{})
	return handler, parts
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body == "" {
		bodyReader = strings.NewReader("{}")
	} else {
		bodyReader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, bodyReader)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func Test_handlers_manualUpdate(t *testing.T) {
	t.Parallel()

	const validBody = `{"operatorId":"operator-a","zoneId":"zone-a",
		"recordId":"record-a","tokenId":"token-a","ttl":600,
		"proxied":true,"comment":"switching ISP"}`

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		handler, _ := newTestHandler(t)
		recorder := serve(handler, http.MethodPost, "/api/v1/dns/update",
			`{"operatorId":"operator-a"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown operator", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)
		parts.runners.err = reconciler.ErrOperatorUnknown
		recorder := serve(handler, http.MethodPost, "/api/v1/dns/update", validBody)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("missing credential", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)
		parts.runner.updateErr = fmt.Errorf("%w: no token id given",
			credentials.ErrCredentialMissing)
		recorder := serve(handler, http.MethodPost, "/api/v1/dns/update", validBody)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("provider rejection", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)
		parts.runner.updateResult = reconciler.UpdateResult{
			EntryID: "entry-1", Success: false,
			Message: "Cloudflare rejected the update.",
		}
		recorder := serve(handler, http.MethodPost, "/api/v1/dns/update", validBody)
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)
		propagated := true
		parts.runner.updateResult = reconciler.UpdateResult{
			EntryID: "entry-1", Success: true,
			Message:         "DNS record updated.",
			Propagated:      &propagated,
			PropagationNote: "DNS record matches public IP.",
		}

		recorder := serve(handler, http.MethodPost, "/api/v1/dns/update", validBody)
		require.Equal(t, http.StatusOK, recorder.Code)

		assert.Equal(t, models.MonitoredRecord{
			ZoneID: "zone-a", RecordID: "record-a", TokenID: "token-a",
		}, parts.runner.updateRecord)
		assert.Equal(t, uint32(600), parts.runner.updateTTL)
		require.NotNil(t, parts.runner.updateProxied)
		assert.True(t, *parts.runner.updateProxied)
		assert.Equal(t, "switching ISP", parts.runner.updateComment)

		var response updateResponse
		err := json.Unmarshal(recorder.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, "entry-1", response.EntryID)
		assert.True(t, response.Success)
		assert.Equal(t, "DNS record matches public IP.", response.PropagationNote)
	})
}

func Test_handlers_rollback(t *testing.T) {
	t.Parallel()

	const validBody = `{"operatorId":"operator-a","updateId":"entry-1"}`

	testCases := map[string]struct {
		rollbackErr error
		status      int
		errMessage  string
	}{
		"entry not found": {
			rollbackErr: store.ErrEntryNotFound,
			status:      http.StatusNotFound,
			errMessage:  "update entry not found",
		},
		"entry not owned looks absent": {
			rollbackErr: reconciler.ErrEntryNotOwned,
			status:      http.StatusNotFound,
			errMessage:  "update entry not found",
		},
		"rollback unavailable": {
			rollbackErr: reconciler.ErrRollbackUnavailable,
			status:      http.StatusConflict,
			errMessage:  "rollback not available for this entry",
		},
		"success": {
			status: http.StatusOK,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			handler, parts := newTestHandler(t)
			parts.rollbacker.err = testCase.rollbackErr
			parts.rollbacker.result = reconciler.UpdateResult{
				EntryID: "entry-2", Success: true,
			}

			recorder := serve(handler, http.MethodPost,
				"/api/v1/dns/rollback", validBody)
			assert.Equal(t, testCase.status, recorder.Code)
			if testCase.errMessage != "" {
				var wrapper errJSONWrapper
				err := json.Unmarshal(recorder.Body.Bytes(), &wrapper)
				require.NoError(t, err)
				assert.Equal(t, testCase.errMessage, wrapper.Error)
			}
		})
	}

	t.Run("actor defaults to operator", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)
		parts.rollbacker.result = reconciler.UpdateResult{Success: true}

		recorder := serve(handler, http.MethodPost, "/api/v1/dns/rollback", validBody)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, reconciler.RollbackRequest{
			OperatorID: "operator-a",
			EntryID:    "entry-1",
			Actor:      "operator-a",
		}, parts.rollbacker.request)
	})
}

func Test_handlers_listUpdates(t *testing.T) {
	t.Parallel()

	t.Run("months and take", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)

		recorder := serve(handler, http.MethodGet,
			"/api/v1/updates?operatorId=operator-a&months=3&take=50", "")
		require.Equal(t, http.StatusOK, recorder.Code)

		assert.Equal(t, "operator-a", parts.ledgerStore.actor)
		require.NotNil(t, parts.ledgerStore.since)
		assert.WithinDuration(t, time.Now().AddDate(0, -3, 0),
			*parts.ledgerStore.since, time.Minute)
		assert.Equal(t, uint(50), parts.ledgerStore.limit)
		// Always a JSON array, even with no entries.
		assert.Equal(t, "[]\n", recorder.Body.String())
	})

	t.Run("invalid months", func(t *testing.T) {
		t.Parallel()
		handler, _ := newTestHandler(t)
		recorder := serve(handler, http.MethodGet,
			"/api/v1/updates?operatorId=operator-a&months=many", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("missing operator", func(t *testing.T) {
		t.Parallel()
		handler, _ := newTestHandler(t)
		recorder := serve(handler, http.MethodGet, "/api/v1/updates", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func Test_handlers_deleteUpdates(t *testing.T) {
	t.Parallel()

	handler, parts := newTestHandler(t)
	parts.ledgerStore.deleted = 4

	recorder := serve(handler, http.MethodDelete,
		"/api/v1/updates?operatorId=operator-a", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "operator-a", parts.ledgerStore.actor)
	assert.JSONEq(t, `{"deleted":4}`, recorder.Body.String())
}

func Test_handlers_forceReconcile(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		handler, _ := newTestHandler(t)
		recorder := serve(handler, http.MethodPost,
			"/api/v1/dns/reconcile?operatorId=operator-a", "")
		assert.Equal(t, http.StatusAccepted, recorder.Code)
		assert.Contains(t, recorder.Body.String(),
			"All records reconciled successfully in ")
	})

	t.Run("record errors", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)
		parts.runner.reconcileErrs = []error{
			errors.New("record zone-a:record-a: boom"),
		}
		recorder := serve(handler, http.MethodPost,
			"/api/v1/dns/reconcile?operatorId=operator-a", "")
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.JSONEq(t, `{"errors":["record zone-a:record-a: boom"]}`,
			recorder.Body.String())
	})
}

func Test_handlers_ipState(t *testing.T) {
	t.Parallel()

	handler, parts := newTestHandler(t)
	parts.runner.current = netip.MustParseAddr("203.0.113.7")
	parts.runner.previous = netip.MustParseAddr("198.51.100.1")

	recorder := serve(handler, http.MethodGet,
		"/api/v1/dns/ip?operatorId=operator-a", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"currentIp":"203.0.113.7","previousIp":"198.51.100.1"}`,
		recorder.Body.String())
}

func Test_handlers_putSettings(t *testing.T) {
	t.Parallel()

	t.Run("password encrypted", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)

		recorder := serve(handler, http.MethodPut, "/api/v1/settings",
			`{"operatorId":"operator-a","intervalMinutes":5,"smtpPass":"hunter2"}`)
		require.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, parts.settings.upserted)
		assert.Equal(t, "enc:v1:hunter2", parts.settings.upserted.SMTPPass)
	})

	t.Run("omitted interval defaults", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)

		recorder := serve(handler, http.MethodPut, "/api/v1/settings",
			`{"operatorId":"operator-a"}`)
		require.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, parts.settings.upserted)
		assert.Equal(t, uint8(models.DefaultIntervalMinutes),
			parts.settings.upserted.IntervalMinutes)
	})

	t.Run("out of range interval rejected", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)

		recorder := serve(handler, http.MethodPut, "/api/v1/settings",
			`{"operatorId":"operator-a","intervalMinutes":121}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Nil(t, parts.settings.upserted)
		var wrapper errJSONWrapper
		err := json.Unmarshal(recorder.Body.Bytes(), &wrapper)
		require.NoError(t, err)
		assert.Equal(t, "intervalMinutes must be between 1 and 120", wrapper.Error)
	})

	t.Run("omitted password keeps stored one", func(t *testing.T) {
		t.Parallel()
		handler, parts := newTestHandler(t)
		parts.settings.getErr = nil
		parts.settings.settings = models.OperatorSettings{
			OperatorID: "operator-a",
			SMTPPass:   "enc:v1:hunter2",
		}

		recorder := serve(handler, http.MethodPut, "/api/v1/settings",
			`{"operatorId":"operator-a","intervalMinutes":10}`)
		require.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, parts.settings.upserted)
		assert.Equal(t, "enc:v1:hunter2", parts.settings.upserted.SMTPPass)
		assert.Equal(t, uint8(10), parts.settings.upserted.IntervalMinutes)
	})
}

func Test_handlers_putToken(t *testing.T) {
	t.Parallel()

	handler, parts := newTestHandler(t)

	recorder := serve(handler, http.MethodPut, "/api/v1/tokens",
		`{"operatorId":"operator-a","name":"home zone","secret":"cf-token"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "operator-a", parts.tokens.operatorID)
	assert.Equal(t, "home zone", parts.tokens.name)
	// Secrets are never stored in plaintext.
	assert.Equal(t, "enc:v1:cf-token", parts.tokens.secret)
	assert.JSONEq(t, `{"tokenId":"token-a"}`, recorder.Body.String())
}
