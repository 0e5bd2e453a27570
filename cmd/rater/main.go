package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/MichalMitros/product-rater/cmd/rater/config"
	"github.com/MichalMitros/product-rater/internal/decoder"
	"github.com/MichalMitros/product-rater/internal/fetcher"
	"github.com/MichalMitros/product-rater/internal/handler"
	"github.com/MichalMitros/product-rater/internal/ingester"
	"github.com/MichalMitros/product-rater/internal/lookup"
	"github.com/MichalMitros/product-rater/internal/platform/genai"
	"github.com/MichalMitros/product-rater/internal/platform/metrics"
	"github.com/MichalMitros/product-rater/internal/platform/rabbitmq"
	"github.com/MichalMitros/product-rater/internal/platform/storage"
	"github.com/MichalMitros/product-rater/internal/rating"
	"github.com/MichalMitros/product-rater/pkg/v1/commander"
	"github.com/caarlos0/env/v6"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const (
	// UserAgent is user agent header value used when calling lookup providers.
	UserAgent = "product-rater/1.0.0"
)

// Store is products storage used by all commands.
type Store interface {
	handler.Store
	ingester.Storage

	EnsureSchema(ctx context.Context) error
	Close() error
}

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("level", cfg.LogLevel).
			Msg("can't parse log level")
	}
	logger = logger.Level(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := &command{cfg: &cfg, logger: &logger}

	app := &cli.App{
		Name:  "product-rater",
		Usage: "Looks up products by barcode, rates them and serves ratings over REST API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve REST API and consume ingest commands from RabbitMQ",
				Action: cmd.serve,
			},
			{
				Name:      "ingest",
				Usage:     "Look up, rate and store products",
				ArgsUsage: "<barcode>...",
				Action:    cmd.ingest,
			},
			{
				Name:      "enqueue",
				Usage:     "Publish ingest commands to RabbitMQ",
				ArgsUsage: "<barcode>...",
				Action:    cmd.enqueue,
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Fatal().
			Err(err).
			Msg("command failed")
	}
}

type command struct {
	cfg    *config.Config
	logger *zerolog.Logger
}

func (c *command) serve(cliCtx *cli.Context) error {
	ctx := cliCtx.Context

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer c.close("storage", store)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	ing, err := c.newIngester(ctx, store)
	if err != nil {
		return err
	}

	httpHandler := handler.NewHTTPHandler(ing, store, c.logger,
		handler.WithMetrics(m),
		handler.WithProduction(c.cfg.IsProduction()),
		handler.WithTopLimit(c.cfg.TopProductsLimit),
		handler.WithCORSOrigins(c.cfg.CORSOrigins),
	)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(c.cfg.Port),
		Handler:           httpHandler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	var rmq *rabbitmq.RabbitMQ
	if c.cfg.RabbitMQ.URL != "" {
		conn, err := amqp.Dial(c.cfg.RabbitMQ.URL)
		if err != nil {
			return fmt.Errorf("can't open RabbitMQ connection: %w", err)
		}
		defer c.close("RabbitMQ connection", conn)

		if rmq, err = c.openRabbitMQ(conn); err != nil {
			return err
		}

		rmqHandler := handler.NewRMQHandler(rmq, ing, m, c.logger)
		if err := rmqHandler.Start(groupCtx, c.cfg.RabbitMQ.Queue); err != nil {
			return fmt.Errorf("can't start consuming: %w", err)
		}
	}

	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("can't serve http: %w", err)
		}
		return nil
	})

	// handle graceful shutdown and context cancellation
	group.Go(func() error {
		<-groupCtx.Done()
		c.logger.Info().Msg("graceful shutdown start")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("can't shutdown http server: %w", err)
		}

		// wait for consumer to finish
		if rmq != nil {
			select {
			case <-rmq.Done():
			case <-shutdownCtx.Done():
				c.logger.Warn().Msg("consumer didn't finish before shutdown timeout")
			}
		}

		return nil
	})

	c.logger.Info().
		Int("port", c.cfg.Port).
		Str("storage", c.cfg.StorageDriver).
		Str("provider", c.cfg.Lookup.Provider).
		Bool("consumer", rmq != nil).
		Msg("product rater up and running")

	if err := group.Wait(); err != nil {
		return err
	}

	c.logger.Info().Msg("graceful shutdown successful")

	return nil
}

func (c *command) ingest(cliCtx *cli.Context) error {
	if cliCtx.NArg() == 0 {
		return errors.New("at least one barcode is required")
	}

	store, err := c.openStore(cliCtx.Context)
	if err != nil {
		return err
	}
	defer c.close("storage", store)

	ing, err := c.newIngester(cliCtx.Context, store)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	for _, barcode := range cliCtx.Args().Slice() {
		result, err := ing.Ingest(cliCtx.Context, barcode)
		if err != nil {
			return fmt.Errorf("can't ingest %q: %w", barcode, err)
		}

		if err := encoder.Encode(result.Product); err != nil {
			return fmt.Errorf("can't print product: %w", err)
		}
	}

	return nil
}

func (c *command) enqueue(cliCtx *cli.Context) error {
	if cliCtx.NArg() == 0 {
		return errors.New("at least one barcode is required")
	}
	if c.cfg.RabbitMQ.URL == "" {
		return errors.New("RABBITMQ_URL is required")
	}

	conn, err := amqp.Dial(c.cfg.RabbitMQ.URL)
	if err != nil {
		return fmt.Errorf("can't open RabbitMQ connection: %w", err)
	}
	defer c.close("RabbitMQ connection", conn)

	rmq, err := c.openRabbitMQ(conn)
	if err != nil {
		return err
	}
	defer c.close("RabbitMQ channel", rmq)

	cmndr := commander.NewIngestCommander(commander.NewRabbitMQSender(rmq, c.cfg.RabbitMQ.RoutingKey))

	for _, barcode := range cliCtx.Args().Slice() {
		if err := cmndr.SendIngestCommand(cliCtx.Context, barcode); err != nil {
			return fmt.Errorf("can't enqueue %q: %w", barcode, err)
		}
		c.logger.Info().Str("barcode", barcode).Msg("ingest command sent")
	}

	return nil
}

func (c *command) openStore(ctx context.Context) (Store, error) {
	var (
		store Store
		err   error
	)

	switch c.cfg.StorageDriver {
	case config.DriverPostgres:
		store, err = storage.OpenPostgres(ctx, c.cfg.DatabaseURL, c.cfg.DBMaxOpenConns)
	case config.DriverMongo:
		store, err = storage.OpenMongo(ctx, c.cfg.Mongo.URI, c.cfg.Mongo.Database)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.EnsureSchema(ctx); err != nil {
		c.close("storage", store)
		return nil, err
	}

	return store, nil
}

func (c *command) newIngester(ctx context.Context, store Store) (*ingester.Ingester, error) {
	provider, err := decoder.ParseProvider(c.cfg.Lookup.Provider)
	if err != nil {
		return nil, err
	}

	lookupClient := lookup.NewClient(
		fetcher.NewFetcher(&http.Client{Timeout: c.cfg.HTTPTimeout}, UserAgent),
		provider,
		c.logger,
		lookup.WithBaseURL(c.cfg.Lookup.BaseURL),
		lookup.WithAPIKey(c.cfg.Lookup.APIKey),
		lookup.WithRateInterval(c.cfg.Lookup.RateInterval),
	)

	genaiClient, err := genai.NewClient(
		ctx,
		c.cfg.GenAI.APIKey,
		c.logger,
		genai.WithBaseURL(c.cfg.GenAI.BaseURL),
		genai.WithModel(c.cfg.GenAI.Model),
		genai.WithHTTPClient(&http.Client{Timeout: c.cfg.GenAI.Timeout}),
		genai.WithRateInterval(c.cfg.GenAI.RateInterval),
	)
	if err != nil {
		return nil, err
	}

	return ingester.NewIngester(lookupClient, rating.NewAcquirer(genaiClient, c.logger), store, c.logger), nil
}

func (c *command) openRabbitMQ(conn *amqp.Connection) (*rabbitmq.RabbitMQ, error) {
	rmq, err := rabbitmq.NewRabbitMQ(conn, c.cfg.RabbitMQ.Exchange,
		rabbitmq.WithPrefetch(c.cfg.RabbitMQ.Prefetch),
		rabbitmq.WithAppID("product-rater"),
	)
	if err != nil {
		return nil, err
	}

	if err := rmq.DeclareTopology(c.cfg.RabbitMQ.Queue, c.cfg.RabbitMQ.RoutingKey); err != nil {
		return nil, err
	}

	return rmq, nil
}

func (c *command) close(name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		c.logger.Error().
			Err(err).
			Msgf("can't close %s", name)
	}
}

var (
	_ Store = (*storage.Postgres)(nil)
	_ Store = (*storage.Mongo)(nil)
)
