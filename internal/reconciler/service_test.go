package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flarewatcher/flarewatcher/internal/models"
)

func newTestService(t *testing.T, settingsStore *testSettingsStore) *Service {
	t.Helper()
	return NewService(settingsStore, &testUpdater{}, &testIPGetter{},
		&testGateway{}, &testCredentials{token: "secret-token"}, &testAlerts{},
		time.Hour, newTestMetrics(t), &testLogger{})
}

func Test_Service_lifecycle(t *testing.T) {
	t.Parallel()

	settingsStore := &testSettingsStore{
		operators: []string{"operator-a", "operator-b"},
		settings:  models.OperatorSettings{OperatorID: "operator-a"},
	}
	service := newTestService(t, settingsStore)

	assert.Equal(t, "reconciler", service.String())

	runError, err := service.Start(context.Background())
	require.NoError(t, err)
	assert.Nil(t, runError)

	runnerA, err := service.Runner(context.Background(), "operator-a")
	require.NoError(t, err)
	runnerB, err := service.Runner(context.Background(), "operator-b")
	require.NoError(t, err)
	assert.NotSame(t, runnerA, runnerB)

	err = service.Stop()
	assert.NoError(t, err)
}

func Test_Service_Runner_lazySpawn(t *testing.T) {
	t.Parallel()

	settingsStore := &testSettingsStore{
		settings: models.OperatorSettings{OperatorID: "operator-c"},
	}
	service := newTestService(t, settingsStore)

	_, err := service.Start(context.Background())
	require.NoError(t, err)

	// operator-c registered after startup: the lookup spawns its runner.
	runner, err := service.Runner(context.Background(), "operator-c")
	require.NoError(t, err)
	require.NotNil(t, runner)

	again, err := service.Runner(context.Background(), "operator-c")
	require.NoError(t, err)
	assert.Same(t, runner, again)

	err = service.Stop()
	assert.NoError(t, err)
}

func Test_Service_Runner_unknownOperator(t *testing.T) {
	t.Parallel()

	settingsStore := &testSettingsStore{getErr: context.DeadlineExceeded}
	service := newTestService(t, settingsStore)

	_, err := service.Start(context.Background())
	require.NoError(t, err)

	_, err = service.Runner(context.Background(), "operator-z")
	assert.ErrorIs(t, err, ErrOperatorUnknown)

	err = service.Stop()
	assert.NoError(t, err)
}
