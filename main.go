package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchbase/gocb/v2"
	"github.com/gin-gonic/gin"

	"github.com/dskvich/ollama-webui/pkg/api"
	"github.com/dskvich/ollama-webui/pkg/auth"
	"github.com/dskvich/ollama-webui/pkg/config"
	"github.com/dskvich/ollama-webui/pkg/database"
	"github.com/dskvich/ollama-webui/pkg/logger"
	"github.com/dskvich/ollama-webui/pkg/ollama"
	"github.com/dskvich/ollama-webui/pkg/repository"
	"github.com/dskvich/ollama-webui/pkg/services"
	"github.com/dskvich/ollama-webui/pkg/tools"
	"github.com/dskvich/ollama-webui/pkg/workers"
)

type Config struct {
	config.Ollama
	config.HTTP
	config.Postgres
	config.Couchbase
	config.Redis
	config.History
	config.Log
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	workerGroup, cleanup, err := setupWorkers(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers(ctx context.Context) (workers.Group, func(), error) {
	cfg := Config{}
	if err := config.Parse(&cfg); err != nil {
		return nil, nil, err
	}

	setupLogger(cfg.Log)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var employees tools.EmployeeRepository
	if cfg.Postgres.Enabled() {
		db, err := database.NewPostgres(cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("creating db: %w", err)
		}
		closers = append(closers, func() { _ = db.Close() })
		employees = repository.NewEmployeeRepository(db)
	} else {
		slog.Info("DATABASE_URL and DB_HOST are not set, employee lookup answers from the prompt")
	}

	var airlines tools.AirlineRepository
	if cfg.Couchbase.URL != "" {
		cluster, err := database.NewCouchbase(cfg.Couchbase)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("creating couchbase cluster: %w", err)
		}
		closers = append(closers, func() { _ = cluster.Close(&gocb.ClusterCloseOptions{}) })
		airlines = repository.NewAirlineRepository(cluster, cfg.Couchbase.Bucket)
	}

	history, err := newHistoryRepository(ctx, cfg.History, cfg.Redis, &closers)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	ollamaClient, err := ollama.NewClient(ollama.Config{
		Host:           cfg.Ollama.Host,
		RequestTimeout: cfg.Ollama.RequestTimeout,
		Verbose:        cfg.Ollama.Verbose,
		LibraryURL:     cfg.Ollama.LibraryURL,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("creating ollama client: %w", err)
	}

	employeeLookup := tools.NewEmployeeLookup(employees)
	toolService, err := services.NewToolService(toolFunctions(employeeLookup, airlines))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("creating tool service: %w", err)
	}

	chatService := services.NewChatService(
		ollamaClient,
		toolService,
		history,
		services.ChatConfig{
			ChatModel:   cfg.Ollama.ChatModel,
			ToolsModel:  cfg.Ollama.ToolsModel,
			ImageModel:  cfg.Ollama.ImageModel,
			DBQueryTool: employeeLookup.Name(),
		},
	)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(chatService, auth.NewAuthenticator(cfg.HTTP.APITokens))

	workerGroup := workers.Group{
		workers.NewHTTPServer(cfg.HTTP.Addr, router, cfg.HTTP.ShutdownTimeout),
	}

	return workerGroup, cleanup, nil
}

func setupLogger(cfg config.Log) {
	opts := *logger.DefaultOptions
	opts.Level = logger.ParseLevel(cfg.Level)
	opts.NoColor = cfg.NoColor
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &opts)))
}

func toolFunctions(employeeLookup services.ToolFunction, airlines tools.AirlineRepository) []services.ToolFunction {
	fns := []services.ToolFunction{
		tools.NewFuelPrice(),
		tools.NewWeather(),
		employeeLookup,
	}
	if airlines != nil {
		fns = append(fns,
			tools.NewAirlineLookup(airlines),
			tools.NewAirlineUpdate(airlines),
		)
	}
	return fns
}

func newHistoryRepository(ctx context.Context, cfg config.History, redisCfg config.Redis, closers *[]func()) (services.ChatHistoryRepository, error) {
	switch cfg.Store {
	case config.HistoryStoreMemory:
		return repository.NewChatHistoryRepository(cfg.TTL), nil
	case config.HistoryStoreRedis:
		client, err := database.NewRedis(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("creating redis client: %w", err)
		}
		*closers = append(*closers, func() { _ = client.Close() })
		return repository.NewRedisChatHistoryRepository(client, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown history store %q", cfg.Store)
	}
}
