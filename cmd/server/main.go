package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-travel-booking/internal/config"
	"github.com/jrsteele09/go-travel-booking/internal/logging"
	"github.com/jrsteele09/go-travel-booking/itinerary"
	"github.com/jrsteele09/go-travel-booking/itinerary/kafkasink"
	"github.com/jrsteele09/go-travel-booking/itinerary/postgres"
	"github.com/jrsteele09/go-travel-booking/server"
	"github.com/jrsteele09/go-travel-booking/server/workspaces"
	"github.com/jrsteele09/go-travel-booking/sessions"
	"github.com/jrsteele09/go-travel-booking/sessions/redisrepo"
	"github.com/jrsteele09/go-travel-booking/sessions/repofakes"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/jrsteele09/go-travel-booking/upstream/fallback"
	"github.com/jrsteele09/go-travel-booking/upstream/flightapi"
	"github.com/jrsteele09/go-travel-booking/upstream/hotelapi"
	"github.com/jrsteele09/go-travel-booking/upstream/mockdata"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	logger := logging.New(c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	ctx := context.Background()
	kv, err := newKeyValueStore(ctx, c, logger)
	if err != nil {
		return err
	}

	mock := mockdata.New(c.GetDefaultCurrency())
	flightAPI, hotelAPI, err := newUpstreams(c, mock, logger)
	if err != nil {
		return err
	}

	recorder, closeRecorder, err := newItinerary(c, logger)
	if err != nil {
		return err
	}
	defer closeRecorder()

	repo, err := workspaces.NewInMemoryRepo(workspaces.Dependencies{
		Store:     kv,
		FlightAPI: flightAPI,
		HotelAPI:  hotelAPI,
		Itinerary: recorder,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.New(c, repo, server.WithLogger(logger), server.WithOfferCatalog(mock))
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(httpServer, logger) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// newKeyValueStore uses Redis when an address is configured and an
// in-process map otherwise.
func newKeyValueStore(ctx context.Context, c config.Config, logger zerolog.Logger) (sessions.KeyValueStore, error) {
	if c.GetRedisAddr() == "" {
		logger.Warn().Msg("REDIS_ADDR not set, sessions will not survive a restart")
		return repofakes.NewFakeKVStore(), nil
	}
	client, err := redisrepo.Connect(ctx, c.GetRedisAddr(), c.GetRedisPassword(), c.GetRedisDB())
	if err != nil {
		return nil, err
	}
	return redisrepo.New(client, c.GetSessionKeyPrefix())
}

func newUpstreams(c config.Config, mock *mockdata.Provider, logger zerolog.Logger) (upstream.FlightAPI, upstream.HotelAPI, error) {
	if c.GetUseMockData() {
		logger.Warn().Msg("USE_MOCK_DATA set, serving mock flights and hotels")
		return mock, mock, nil
	}

	timeout := time.Duration(c.GetUpstreamTimeoutSeconds()) * time.Second
	flights, err := flightapi.New(c.GetFlightAPIURL(), c.GetFlightAPIKey(),
		flightapi.WithTimeout(timeout),
		flightapi.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	hotels, err := hotelapi.New(c.GetHotelAPIURL(), hotelapi.Credentials{
		ClientID:     c.GetHotelAPIClientID(),
		ClientSecret: c.GetHotelAPIClientSecret(),
		TokenURL:     c.GetHotelAPITokenURL(),
	}, hotelapi.WithTimeout(timeout), hotelapi.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	flightAPI, err := fallback.NewFlightAPI(flights, mock, fallback.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	hotelAPI, err := fallback.NewHotelAPI(hotels, mock, fallback.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return flightAPI, hotelAPI, nil
}

// newItinerary fans confirmations out to every configured sink. The
// in-memory log is always present.
func newItinerary(c config.Config, logger zerolog.Logger) (itinerary.Recorder, func(), error) {
	recorders := itinerary.Multi{itinerary.NewInMemory()}
	closeFn := func() {}

	if brokers := c.GetKafkaBrokers(); len(brokers) > 0 {
		writer := kafkasink.NewWriter(brokers, c.GetKafkaItineraryTopic())
		sink, err := kafkasink.New(writer)
		if err != nil {
			return nil, closeFn, err
		}
		recorders = append(recorders, sink)
		closeFn = func() {
			if err := writer.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close kafka writer")
			}
		}
	}

	if url := c.GetDatabaseURL(); url != "" {
		store, err := postgres.Open(url)
		if err != nil {
			closeFn()
			return nil, func() {}, err
		}
		recorders = append(recorders, store)
	}
	return recorders, closeFn, nil
}

func listenAndServe(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
