package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/breml/rootcerts"
	"github.com/qdm12/goservices"
	"github.com/qdm12/gosplash"
	"github.com/qdm12/log"

	"github.com/flarewatcher/flarewatcher/internal/alerts"
	"github.com/flarewatcher/flarewatcher/internal/cloudflare"
	"github.com/flarewatcher/flarewatcher/internal/config/settings"
	"github.com/flarewatcher/flarewatcher/internal/config/sources/env"
	"github.com/flarewatcher/flarewatcher/internal/credentials"
	"github.com/flarewatcher/flarewatcher/internal/health"
	"github.com/flarewatcher/flarewatcher/internal/metrics"
	"github.com/flarewatcher/flarewatcher/internal/models"
	"github.com/flarewatcher/flarewatcher/internal/propagation"
	"github.com/flarewatcher/flarewatcher/internal/publicip"
	"github.com/flarewatcher/flarewatcher/internal/reconciler"
	"github.com/flarewatcher/flarewatcher/internal/server"
	"github.com/flarewatcher/flarewatcher/internal/store"
)

//nolint:gochecknoglobals
var (
	version = "unknown"
	commit  = "unknown"
	date    = "an unknown date"
)

func main() {
	buildInfo := models.BuildInformation{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	logger := log.New()

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	ctx, cancel := context.WithCancel(ctx)

	errorCh := make(chan error)
	go func() {
		errorCh <- _main(ctx, os.Args, logger, buildInfo)
	}()

	select {
	case <-ctx.Done():
		stop()
		logger.Warn("Caught OS signal, shutting down")
	case err := <-errorCh:
		stop()
		close(errorCh)
		if err == nil { // expected exit such as healthcheck
			os.Exit(0)
		}
		logger.Error(err.Error())
		cancel()
	}

	const shutdownGracePeriod = 5 * time.Second
	timer := time.NewTimer(shutdownGracePeriod)
	select {
	case err := <-errorCh:
		if !timer.Stop() {
			<-timer.C
		}
		if err != nil {
			logger.Error(err.Error())
		}
		logger.Info("Shutdown successful")
	case <-timer.C:
		logger.Warn("Shutdown timed out")
	}

	os.Exit(1)
}

func _main(ctx context.Context, args []string, logger log.LoggerInterface,
	buildInfo models.BuildInformation) (err error) {
	if len(args) > 1 {
		switch args[1] {
		case "version", "-version", "--version":
			fmt.Println(buildInfo.VersionString())
			return nil
		case "healthcheck":
			// Running the program in a separate ephemeral instance
			// through the Docker built-in healthcheck, to query the
			// long running instance of the program about its status
			source := env.New(logger)
			healthSettings := source.ReadHealth()
			healthSettings.SetDefaults()
			err = healthSettings.Validate()
			if err != nil {
				return fmt.Errorf("health settings: %w", err)
			}

			client := health.NewClient()
			return client.Query(ctx, *healthSettings.ServerAddress)
		}
	}

	printSplash(buildInfo)

	source := env.New(logger)
	config, err := readConfig(source, logger)
	if err != nil {
		return err
	}

	metricsSet, err := metrics.New()
	if err != nil {
		return fmt.Errorf("setting up metrics: %w", err)
	}

	client := &http.Client{Timeout: config.Client.Timeout}
	defer client.CloseIdleConnections()

	err = health.CheckHTTP(ctx, client)
	if err != nil {
		logger.Warn(err.Error())
	}

	database, err := store.Open(config.Store.DSN)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	providers := config.PubIP.ToProviders()
	ipGetter, err := publicip.New(client,
		publicip.SetProviders(providers[0], providers[1:]...))
	if err != nil {
		return fmt.Errorf("creating public IP fetcher: %w", err)
	}

	gateway := cloudflare.New(client)

	checker := propagation.New(
		propagation.WithResolverAddress(config.Propagation.ResolverAddress))

	codec := credentials.NewCodec(*config.Secrets.EncryptionKey)
	credentialResolver := credentials.NewResolver(database, codec)

	alertsLogger := logger.New(log.SetComponent("alerts"))
	dispatcher := alerts.New(codec, alertsLogger, func() string {
		return time.Now().Format(time.RFC1123)
	})

	updaterLogger := logger.New(log.SetComponent("updater"))
	updater := reconciler.NewUpdater(gateway, database, database,
		credentialResolver, checker, dispatcher, metricsSet, updaterLogger)

	reconcilerLogger := logger.New(log.SetComponent("reconciler"))
	reconcilerService := reconciler.NewService(database, updater, ipGetter,
		gateway, credentialResolver, dispatcher, config.Update.DetectionPeriod,
		metricsSet, reconcilerLogger)

	healthLogger := logger.New(log.SetComponent("healthcheck server"))
	healthServer, err := health.NewServer(*config.Health.ServerAddress,
		healthLogger, health.MakeIsHealthy(database, healthLogger))
	if err != nil {
		return fmt.Errorf("creating health server: %w", err)
	}

	serverLogger := logger.New(log.SetComponent("http server"))
	rootURL := strings.TrimSuffix(config.Server.RootURL, "/")
	handler := server.NewHandler(rootURL,
		server.ReconcilerSource(reconcilerService), updater,
		database, database, database, codec, metricsSet.Registry(), serverLogger)
	apiServer := server.New("0.0.0.0:"+strconv.Itoa(int(*config.Server.Port)),
		handler, serverLogger)

	servicesSequence, err := goservices.NewSequence(goservices.SequenceSettings{
		ServicesStart: []goservices.Service{database, reconcilerService, healthServer, apiServer},
		ServicesStop:  []goservices.Service{apiServer, healthServer, reconcilerService, database},
	})
	if err != nil {
		return fmt.Errorf("creating services sequence: %w", err)
	}

	runError, startErr := servicesSequence.Start(ctx)
	if startErr != nil {
		return fmt.Errorf("starting services: %w", startErr)
	}

	select {
	case <-ctx.Done():
	case err = <-runError:
		return fmt.Errorf("exiting due to critical error: %w", err)
	}

	err = servicesSequence.Stop()
	if err != nil {
		return fmt.Errorf("stopping failed: %w", err)
	}

	return nil
}

func printSplash(buildInfo models.BuildInformation) {
	splashSettings := gosplash.Settings{
		User:       "flarewatcher",
		Repository: "flarewatcher",
		Version:    buildInfo.Version,
		Commit:     buildInfo.Commit,
		BuildDate:  buildInfo.Date,
	}
	for _, line := range gosplash.MakeLines(splashSettings) {
		fmt.Println(line)
	}
}

func readConfig(source *env.Source, logger log.LoggerInterface) (
	config settings.Settings, err error) {
	config, err = source.Read()
	if err != nil {
		return config, fmt.Errorf("reading settings: %w", err)
	}
	config.SetDefaults()
	err = config.Validate()
	if err != nil {
		return config, fmt.Errorf("settings validation: %w", err)
	}

	logger.Patch(config.Logger.ToOptions()...)
	logger.Info(config.String())

	return config, nil
}
