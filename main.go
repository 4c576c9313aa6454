package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amomaster/advisor"
	"amomaster/config"
	"amomaster/controllers"
	"amomaster/db"
	"amomaster/matching"
	"amomaster/router"
	"amomaster/tools"
	"amomaster/workers"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "amomaster",
		Short:         "Relationship coaching API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json", "path to the configuration file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the diary insight worker",
		RunE:  func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  func(*cobra.Command, []string) error { return migrate() },
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (config.Configuration, *zap.Logger, error) {
	cfg, err := config.Get(configPath)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := tools.NewLogger(cfg.Env, cfg.LogPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func migrate() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	conn, err := db.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		return err
	}
	logger.Info("migration done")
	return nil
}

func serve(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	loc, err := time.LoadLocation(cfg.Rag.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using local", zap.String("timezone", cfg.Rag.Timezone), zap.Error(err))
		loc = time.Local
	}

	conn, err := db.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	var chat tools.ChatClient
	client, err := tools.NewOpenAIClient(tools.OpenAIConfig{
		ApiKey:  cfg.AI.ApiKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
	}, logger)
	switch {
	case errors.Is(err, tools.ErrNoAPIKey):
		logger.Warn("OPENAI_API_KEY not set, advisor runs with mock replies")
	case err != nil:
		return err
	default:
		chat = client
	}

	store := db.NewRecordStore(conn)
	contexts := matching.NewContextBuilder(store, logger,
		matching.WithLimit(cfg.Rag.Limit),
		matching.WithLocation(loc))
	adv := advisor.NewService(contexts, chat, logger, advisor.Options{
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	})

	services := &controllers.Services{
		Config:      cfg,
		Logger:      logger,
		MineChecker: matching.NewMineChecker(store, logger),
		Contexts:    contexts,
		Advisor:     adv,
		Usage:       advisor.NewUsagePolicy(cfg.AI.DailyLimit, cfg.AI.TrialDays, loc),
		Location:    loc,
	}

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	router.Initialize(r, conn, services)

	if adv.Enabled() {
		workers.NewDiaryProcessor(conn, adv, logger,
			time.Duration(cfg.Workers.DiaryIntervalSeconds)*time.Second,
			cfg.Workers.DiaryBatchSize,
		).Start(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
