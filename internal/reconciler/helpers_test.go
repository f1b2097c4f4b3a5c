package reconciler

import (
	"context"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flarewatcher/flarewatcher/internal/alerts"
	"github.com/flarewatcher/flarewatcher/internal/cloudflare"
	"github.com/flarewatcher/flarewatcher/internal/metrics"
	"github.com/flarewatcher/flarewatcher/internal/models"
)

type testGateway struct {
	mutex         sync.Mutex
	record        cloudflare.Record
	readErr       error
	readCalls     int
	writeResult   cloudflare.WriteResult
	writeErr      error
	writeRequests []cloudflare.WriteRequest
}

func (g *testGateway) ReadRecord(_ context.Context, _, _, _ string) (
	cloudflare.Record, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.readCalls++
	return g.record, g.readErr
}

func (g *testGateway) WriteRecord(_ context.Context, _, _, _ string,
	writeRequest cloudflare.WriteRequest) (cloudflare.WriteResult, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.writeRequests = append(g.writeRequests, writeRequest)
	return g.writeResult, g.writeErr
}

type testLedger struct {
	mutex     sync.Mutex
	appended  []models.LedgerEntry
	appendID  string
	appendErr error
	entry     models.LedgerEntry
	getErr    error
}

func (l *testLedger) AppendEntry(_ context.Context, entry models.LedgerEntry) (
	string, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.appended = append(l.appended, entry)
	return l.appendID, l.appendErr
}

func (l *testLedger) GetEntry(_ context.Context, _ string) (
	models.LedgerEntry, error) {
	return l.entry, l.getErr
}

type testSettingsStore struct {
	mutex     sync.Mutex
	settings  models.OperatorSettings
	getErr    error
	upserted  []models.OperatorSettings
	upsertErr error
	operators []string
}

func (s *testSettingsStore) GetSettings(_ context.Context, _ string) (
	models.OperatorSettings, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.settings, s.getErr
}

func (s *testSettingsStore) UpsertSettings(_ context.Context,
	settings models.OperatorSettings) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.upserted = append(s.upserted, settings)
	return s.upsertErr
}

func (s *testSettingsStore) ListOperators(_ context.Context) ([]string, error) {
	return s.operators, nil
}

type testCredentials struct {
	token string
	err   error
}

func (c *testCredentials) Resolve(_ context.Context, _, _ string) (string, error) {
	return c.token, c.err
}

type testPropagation struct {
	propagated *bool
	note       string
	calls      int
}

func (p *testPropagation) Check(_ context.Context, _, _, _ string) (*bool, string) {
	p.calls++
	return p.propagated, p.note
}

type sentAlert struct {
	settings models.OperatorSettings
	payload  alerts.Payload
}

type testAlerts struct {
	mutex sync.Mutex
	sent  []sentAlert
}

func (a *testAlerts) Notify(settings models.OperatorSettings, payload alerts.Payload) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.sent = append(a.sent, sentAlert{settings: settings, payload: payload})
}

func (a *testAlerts) all() []sentAlert {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return append([]sentAlert(nil), a.sent...)
}

type testIPGetter struct {
	mutex sync.Mutex
	ip    netip.Addr
	err   error
}

func (g *testIPGetter) IP(_ context.Context) (netip.Addr, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.ip, g.err
}

func (g *testIPGetter) set(ip netip.Addr) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.ip = ip
}

type testLogger struct {
	mutex    sync.Mutex
	messages []string
}

func (l *testLogger) log(s string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.messages = append(l.messages, s)
}

func (l *testLogger) Debug(s string) { l.log(s) }
func (l *testLogger) Info(s string)  { l.log(s) }
func (l *testLogger) Warn(s string)  { l.log(s) }
func (l *testLogger) Error(s string) { l.log(s) }

func (l *testLogger) all() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]string(nil), l.messages...)
}

func newTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	m, err := metrics.New()
	require.NoError(t, err)
	return m
}

func ptrTo[T any](value T) *T { return &value }

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
