// Package servecmder provides the serve command that runs the kiosk API
// server with its dashboard and chat assistant.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/kiosk/api"
	"github.com/papercomputeco/kiosk/pkg/assistant"
	"github.com/papercomputeco/kiosk/pkg/cache/redis"
	"github.com/papercomputeco/kiosk/pkg/config"
	"github.com/papercomputeco/kiosk/pkg/deck"
	"github.com/papercomputeco/kiosk/pkg/eventstream"
	"github.com/papercomputeco/kiosk/pkg/eventstream/kafka"
	"github.com/papercomputeco/kiosk/pkg/eventstream/nop"
	"github.com/papercomputeco/kiosk/pkg/logger"
	"github.com/papercomputeco/kiosk/pkg/recorder"
	storageutils "github.com/papercomputeco/kiosk/pkg/storage/utils"
)

const cachePrefix = "kiosk:deck"

type serveCommander struct {
	listen       string
	sqlitePath   string
	postgresDSN  string
	model        string
	apiKey       string
	profilePath  string
	lookbackDays uint
	cacheTTL     string
	redisAddr    string
	kafkaBrokers string
	kafkaTopic   string
	jsonLogs     bool

	logger *slog.Logger
}

const serveLongDesc string = `Run the kiosk API server.

The server answers visitors through the chat assistant, records every question
as a chat log and serves the analytics dashboard and its exports:

  GET  /ping
  GET  /v1/dashboard?range=7d|30d|mtd|yearly|custom&from=&to=
  GET  /v1/dashboard/logs
  GET  /v1/dashboard/export/{all,summary,failed,xlsx}
  POST /v1/chat, /v1/chat/stream, /v1/chat/reset

Chat logs go to PostgreSQL (--postgres), SQLite (--sqlite) or memory.
Without a Gemini API key the dashboard still runs and the chat routes answer
503. --redis shares the dashboard cache between replicas and --kafka-brokers
publishes every stored chat log as an event.`

const serveShortDesc string = "Run the kiosk API server"

var serveFlags = []string{
	config.FlagAPIListen,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagModel,
	config.FlagAPIKey,
	config.FlagProfile,
	config.FlagLookbackDays,
	config.FlagCacheTTL,
	config.FlagRedisAddr,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)
			cmder.load(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			cmder.logger = logger.New(
				logger.WithDebug(debug),
				logger.WithPretty(!cmder.jsonLogs),
				logger.WithJSON(cmder.jsonLogs),
			)
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &cmder.apiKey)
	config.AddStringFlag(cmd, config.Flags, config.FlagProfile, &cmder.profilePath)
	config.AddUintFlag(cmd, config.Flags, config.FlagLookbackDays, &cmder.lookbackDays)
	config.AddStringFlag(cmd, config.Flags, config.FlagCacheTTL, &cmder.cacheTTL)
	config.AddStringFlag(cmd, config.Flags, config.FlagRedisAddr, &cmder.redisAddr)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaTopic, &cmder.kafkaTopic)
	cmd.Flags().BoolVar(&cmder.jsonLogs, "json-logs", false, "Write structured JSON logs")

	return cmd
}

func (c *serveCommander) load(v *viper.Viper) {
	c.listen = v.GetString("api.listen")
	c.sqlitePath = v.GetString("storage.sqlite_path")
	c.postgresDSN = v.GetString("storage.postgres_dsn")
	c.model = v.GetString("assistant.model")
	c.apiKey = v.GetString("assistant.api_key")
	c.profilePath = v.GetString("assistant.profile_path")
	c.lookbackDays = v.GetUint("deck.lookback_days")
	c.cacheTTL = v.GetString("deck.cache_ttl")
	c.redisAddr = v.GetString("deck.redis_addr")
	c.kafkaBrokers = v.GetString("eventstream.kafka_brokers")
	c.kafkaTopic = v.GetString("eventstream.kafka_topic")
}

func (c *serveCommander) run(ctx context.Context) error {
	if c.logger == nil {
		c.logger = logger.Nop()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheTTL, err := c.parseCacheTTL()
	if err != nil {
		return err
	}

	driver, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
		PostgresDSN: c.postgresDSN,
		SQLitePath:  c.sqlitePath,
		Logger:      c.logger,
	})
	if err != nil {
		return err
	}
	defer driver.Close()

	publisher, err := c.newPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	source := c.eventSource()
	pool, err := recorder.NewPool(&recorder.Config{
		Driver:    driver,
		Publisher: publisher,
		Source:    source,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating recorder: %w", err)
	}
	// Runs before the publisher and driver close so queued logs are kept.
	defer pool.Close()

	profile, err := assistant.LoadProfile(c.profilePath)
	if err != nil {
		return err
	}

	queryOpts := []deck.QueryOption{
		deck.WithLookbackDays(int(c.lookbackDays)),
		deck.WithCacheTTL(cacheTTL),
		deck.WithKeywords(deck.NewKeywordExtractor(profile.Vocabulary())),
		deck.WithLogger(c.logger),
	}
	if c.redisAddr != "" {
		client, err := redis.Dial(ctx, c.redisAddr, "", 0)
		if err != nil {
			return err
		}
		defer client.Close()

		c.logger.Info("using redis dashboard cache", "addr", c.redisAddr)
		queryOpts = append(queryOpts, deck.WithLogCache(redis.NewCache(client, cachePrefix)))
	}
	query := deck.NewQuery(driver, queryOpts...)

	chat, err := c.newChatter(ctx, profile, pool)
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Config{ListenAddr: c.listen}, query, chat, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("API server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		c.logger.Info("shutting down API server")
		return server.Shutdown()
	})

	return g.Wait()
}

func (c *serveCommander) parseCacheTTL() (time.Duration, error) {
	if c.cacheTTL == "" {
		return 0, nil
	}

	ttl, err := time.ParseDuration(c.cacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.cacheTTL, err)
	}
	return ttl, nil
}

func (c *serveCommander) newPublisher() (eventstream.Publisher, error) {
	brokers := config.SplitList(c.kafkaBrokers)
	if len(brokers) == 0 {
		return nop.NewPublisher(), nil
	}

	publisher, err := kafka.NewPublisher(brokers, c.kafkaTopic)
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}

	c.logger.Info("publishing chat log events to kafka", "brokers", brokers, "topic", c.kafkaTopic)
	return publisher, nil
}

func (c *serveCommander) eventSource() eventstream.EventSource {
	kiosk, err := os.Hostname()
	if err != nil {
		kiosk = "kiosk"
	}
	return eventstream.EventSource{Kiosk: kiosk, Model: c.model}
}

// newChatter builds the assistant. A nil Chatter without error means no API
// key is configured and chat is disabled.
func (c *serveCommander) newChatter(ctx context.Context, profile assistant.Profile, rec assistant.Recorder) (api.Chatter, error) {
	if c.apiKey == "" {
		c.logger.Warn("no Gemini API key configured, chat assistant disabled")
		return nil, nil
	}

	backend, err := assistant.NewGenAIBackend(ctx, c.apiKey, c.model)
	if err != nil {
		return nil, err
	}

	c.logger.Info("chat assistant enabled", "model", c.model, "kiosk", profile.Name)
	return assistant.NewService(backend, profile,
		assistant.WithRecorder(rec),
		assistant.WithLogger(c.logger),
	), nil
}
