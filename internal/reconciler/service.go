package reconciler

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/flarewatcher/flarewatcher/internal/metrics"
)

// Service runs one reconciliation Runner per operator found in the
// settings store. Runners for operators created after startup are
// spawned lazily by Runner lookups.
type Service struct {
	// Injected fields
	settingsStore   SettingsStore
	updater         UpdaterInterface
	ipGetter        PublicIPFetcher
	gateway         Gateway
	credentials     CredentialResolver
	alerts          AlertSender
	detectionPeriod time.Duration
	metrics         *metrics.Metrics
	logger          Logger

	// Internal fields
	runnersMutex sync.Mutex
	runners      map[string]*Runner
	runnerDones  []<-chan struct{}
	runCtx       context.Context //nolint:containedctx
	cancel       context.CancelFunc
}

func NewService(settingsStore SettingsStore, updater UpdaterInterface,
	ipGetter PublicIPFetcher, gateway Gateway, credentials CredentialResolver,
	alerts AlertSender, detectionPeriod time.Duration,
	metrics *metrics.Metrics, logger Logger) *Service {
	return &Service{
		settingsStore:   settingsStore,
		updater:         updater,
		ipGetter:        ipGetter,
		gateway:         gateway,
		credentials:     credentials,
		alerts:          alerts,
		detectionPeriod: detectionPeriod,
		metrics:         metrics,
		logger:          logger,
		runners:         make(map[string]*Runner),
	}
}

func (s *Service) String() string {
	return "reconciler"
}

func (s *Service) Start(ctx context.Context) (runError <-chan error, startErr error) {
	operatorIDs, err := s.settingsStore.ListOperators(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing operators: %w", err)
	}

	s.runCtx, s.cancel = context.WithCancel(context.Background())

	s.runnersMutex.Lock()
	for _, operatorID := range operatorIDs {
		s.spawnRunner(operatorID)
	}
	s.runnersMutex.Unlock()

	s.logger.Info("started " + strconv.Itoa(len(operatorIDs)) +
		" reconciliation runner(s)")
	return nil, nil
}

func (s *Service) Stop() (err error) {
	s.cancel()
	s.runnersMutex.Lock()
	defer s.runnersMutex.Unlock()
	for _, done := range s.runnerDones {
		<-done
	}
	s.runners = make(map[string]*Runner)
	s.runnerDones = nil
	return nil
}

// Runner returns the runner for the operator, spawning it first if the
// operator registered after the service started.
func (s *Service) Runner(ctx context.Context, operatorID string) (
	runner *Runner, err error) {
	s.runnersMutex.Lock()
	defer s.runnersMutex.Unlock()

	runner, ok := s.runners[operatorID]
	if ok {
		return runner, nil
	}

	_, err = s.settingsStore.GetSettings(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOperatorUnknown, operatorID)
	}

	return s.spawnRunner(operatorID), nil
}

// spawnRunner must be called with runnersMutex held.
func (s *Service) spawnRunner(operatorID string) *Runner {
	runner := NewRunner(operatorID, s.settingsStore, s.updater,
		s.ipGetter, s.gateway, s.credentials, s.alerts,
		s.detectionPeriod, s.metrics, s.logger)
	s.runners[operatorID] = runner
	done := make(chan struct{})
	s.runnerDones = append(s.runnerDones, done)
	go runner.Run(s.runCtx, done)
	return runner
}
