package reconciler

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/flarewatcher/flarewatcher/internal/alerts"
	"github.com/flarewatcher/flarewatcher/internal/credentials"
	"github.com/flarewatcher/flarewatcher/internal/metrics"
	"github.com/flarewatcher/flarewatcher/internal/models"
)

// Runner drives the reconciliation loop for a single operator. It runs
// two periodic jobs: a frequent public IP detection which raises alerts
// on change, and a slower reconciliation which rewrites monitored DNS
// records whose content no longer matches the public IP.
type Runner struct {
	operatorID      string
	settingsStore   SettingsStore
	updater         UpdaterInterface
	ipGetter        PublicIPFetcher
	gateway         Gateway
	credentials     CredentialResolver
	alerts          AlertSender
	detectionPeriod time.Duration
	metrics         *metrics.Metrics
	logger          Logger
	timeNow         func() time.Time

	force       chan struct{}
	forceResult chan []error

	// stateMutex guards the runtime IP state below.
	stateMutex    sync.Mutex
	currentIP     netip.Addr
	previousIP    netip.Addr
	suppressAlert bool
	// recordContent caches the last known content per monitored
	// record, keyed by zoneID:recordID.
	recordContent map[string]string
}

func NewRunner(operatorID string, settingsStore SettingsStore,
	updater UpdaterInterface, ipGetter PublicIPFetcher, gateway Gateway,
	credentials CredentialResolver, alerts AlertSender,
	detectionPeriod time.Duration, metrics *metrics.Metrics,
	logger Logger) *Runner {
	return &Runner{
		operatorID:      operatorID,
		settingsStore:   settingsStore,
		updater:         updater,
		ipGetter:        ipGetter,
		gateway:         gateway,
		credentials:     credentials,
		alerts:          alerts,
		detectionPeriod: detectionPeriod,
		metrics:         metrics,
		logger:          logger,
		timeNow:         time.Now,
		force:           make(chan struct{}),
		forceResult:     make(chan []error),
		recordContent:   make(map[string]string),
	}
}

func (r *Runner) Run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	detectionTicker := time.NewTicker(r.detectionPeriod)
	defer detectionTicker.Stop()

	interval := r.reconcileInterval(ctx)
	reconcileTicker := time.NewTicker(interval)
	defer reconcileTicker.Stop()

	for {
		select {
		case <-detectionTicker.C:
			r.metrics.TicksTotal.WithLabelValues("detection").Inc()
			_, _ = r.detect(ctx)
		case <-reconcileTicker.C:
			r.logErrors(r.reconcile(ctx))
			if newInterval := r.reconcileInterval(ctx); newInterval != interval {
				interval = newInterval
				reconcileTicker.Reset(interval)
			}
		case <-r.force:
			r.forceResult <- r.reconcile(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ForceReconcile triggers an immediate reconciliation on the loop
// goroutine and waits for its result.
func (r *Runner) ForceReconcile(ctx context.Context) (errs []error) {
	select {
	case r.force <- struct{}{}:
	case <-ctx.Done():
		return []error{ctx.Err()}
	}
	select {
	case errs = <-r.forceResult:
		return errs
	case <-ctx.Done():
		return []error{ctx.Err()}
	}
}

// ManualUpdate writes the current public IP to one record on behalf of
// the operator. The IP change alert for the resulting observation is
// suppressed since the operator initiated the change themselves.
func (r *Runner) ManualUpdate(ctx context.Context, record models.MonitoredRecord,
	ttl uint32, proxied *bool, comment string) (result UpdateResult, err error) {
	ip, err := r.ipGetter.IP(ctx)
	if err != nil {
		r.metrics.ResolveErrors.Inc()
		return result, fmt.Errorf("resolving public IP address: %w", err)
	}

	r.stateMutex.Lock()
	r.suppressAlert = true
	r.stateMutex.Unlock()

	result, err = r.updater.Update(ctx, UpdateRequest{
		OperatorID: r.operatorID,
		ZoneID:     record.ZoneID,
		RecordID:   record.RecordID,
		TokenID:    record.TokenID,
		Content:    ip.String(),
		TTL:        ttl,
		Proxied:    proxied,
		Comment:    comment,
		Trigger:    models.TriggerManual,
		Actor:      r.operatorID,
	})
	if err == nil && result.Success {
		r.stateMutex.Lock()
		r.recordContent[record.Key()] = ip.String()
		r.stateMutex.Unlock()
		r.observe(ip)
	}
	return result, err
}

// detect resolves the public IP and advances the runtime IP state,
// alerting the operator when the address changed. The suppression flag
// is consumed by any observation, changed or not.
func (r *Runner) detect(ctx context.Context) (ip netip.Addr, ok bool) {
	ip, err := r.ipGetter.IP(ctx)
	if err != nil {
		r.metrics.ResolveErrors.Inc()
		r.logger.Error("resolving public IP address: " + err.Error())
		return netip.Addr{}, false
	}

	changed, suppressed, previous := r.observe(ip)
	if !changed {
		return ip, true
	}

	r.metrics.IPChangesTotal.Inc()
	previousString := "-"
	if previous.IsValid() {
		previousString = previous.String()
	}
	message := "IP change detected: " + previousString + " -> " + ip.String()
	r.logger.Info(message)
	if suppressed {
		r.logger.Debug("IP change alert suppressed for operator " + r.operatorID)
		return ip, true
	}

	settings, err := r.settingsStore.GetSettings(ctx, r.operatorID)
	if err != nil {
		r.logger.Error("reading settings: " + err.Error())
		return ip, true
	}
	if settings.NotifyOnIPChange {
		r.alerts.Notify(settings, alerts.Payload{
			Title:      "IP change detected",
			Body:       message,
			PreviousIP: previousString,
			CurrentIP:  ip.String(),
		})
	}
	return ip, true
}

// observe merges one IP observation into the runtime state and reports
// whether the address changed, consuming the alert suppression flag.
func (r *Runner) observe(ip netip.Addr) (changed, suppressed bool,
	previous netip.Addr) {
	r.stateMutex.Lock()
	defer r.stateMutex.Unlock()

	suppressed = r.suppressAlert
	r.suppressAlert = false
	if ip == r.currentIP {
		return false, suppressed, r.previousIP
	}

	previous = r.currentIP
	r.previousIP = r.currentIP
	r.currentIP = ip
	return true, suppressed, previous
}

// IPState returns the current and previous public IP addresses
// observed by the loop. Either can be the zero value before the
// first observation.
func (r *Runner) IPState() (current, previous netip.Addr) {
	r.stateMutex.Lock()
	defer r.stateMutex.Unlock()
	return r.currentIP, r.previousIP
}

func (r *Runner) reconcile(ctx context.Context) (errs []error) {
	r.metrics.TicksTotal.WithLabelValues("reconcile").Inc()
	start := r.timeNow()
	defer func() {
		r.metrics.TickDuration.Observe(r.timeNow().Sub(start).Seconds())
	}()

	ip, ok := r.detect(ctx)
	if !ok {
		// Without a public IP there is nothing to reconcile against.
		return nil
	}

	settings, err := r.settingsStore.GetSettings(ctx, r.operatorID)
	if err != nil {
		return []error{fmt.Errorf("reading settings: %w", err)}
	}

	content := ip.String()
	for _, record := range settings.MonitoredRecords {
		err = r.reconcileRecord(ctx, record, content)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", record.Key(), err))
		}
	}
	return errs
}

func (r *Runner) reconcileRecord(ctx context.Context,
	record models.MonitoredRecord, content string) (err error) {
	r.stateMutex.Lock()
	cached, known := r.recordContent[record.Key()]
	r.stateMutex.Unlock()

	if !known {
		cached, err = r.refreshRecord(ctx, record)
		if err != nil {
			if errors.Is(err, credentials.ErrCredentialMissing) {
				// A record without a usable token cannot be updated
				// either, so skip it instead of burning an attempt.
				r.logger.Warn("skipping record " + record.Key() +
					": " + err.Error())
				return nil
			}
			return err
		}
	}

	if cached == content {
		return nil
	}

	result, err := r.updater.Update(ctx, UpdateRequest{
		OperatorID: r.operatorID,
		ZoneID:     record.ZoneID,
		RecordID:   record.RecordID,
		TokenID:    record.TokenID,
		Content:    content,
		Comment:    autoUpdateComment,
		Trigger:    models.TriggerAuto,
		Actor:      r.operatorID,
	})
	switch {
	case err != nil:
		return err
	case !result.Success:
		return errors.New(result.Message)
	}

	r.stateMutex.Lock()
	r.recordContent[record.Key()] = content
	r.stateMutex.Unlock()
	return nil
}

// refreshRecord reads the record from the provider and seeds the
// content cache with its live content.
func (r *Runner) refreshRecord(ctx context.Context,
	record models.MonitoredRecord) (content string, err error) {
	token, err := r.credentials.Resolve(ctx, r.operatorID, record.TokenID)
	if err != nil {
		return "", err
	}

	liveRecord, err := r.gateway.ReadRecord(ctx, record.ZoneID,
		record.RecordID, token)
	if err != nil {
		return "", fmt.Errorf("reading record: %w", err)
	}

	r.stateMutex.Lock()
	r.recordContent[record.Key()] = liveRecord.Content
	r.stateMutex.Unlock()
	return liveRecord.Content, nil
}

// reconcileInterval reads the operator's configured interval, falling
// back to the settings default when the settings cannot be read.
func (r *Runner) reconcileInterval(ctx context.Context) time.Duration {
	settings, err := r.settingsStore.GetSettings(ctx, r.operatorID)
	if err != nil {
		r.logger.Warn("reading settings: " + err.Error())
		return models.DefaultIntervalMinutes * time.Minute
	}
	return time.Duration(settings.IntervalMinutes) * time.Minute
}

func (r *Runner) logErrors(errs []error) {
	for _, err := range errs {
		r.logger.Error(err.Error())
	}
}
