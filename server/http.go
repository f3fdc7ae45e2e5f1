package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"worker-recsync/config"
	"worker-recsync/constant"
	msgHandler "worker-recsync/handler"
	"worker-recsync/pkg/rabbitmq"
)

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(SetupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewRabbitMQConn")
	}

	syncService := NewSyncService(cfg)

	serviceDeps := msgHandler.ServiceDependencies{
		SyncService: syncService,
	}

	// One consumer per queue: full tenant syncs and transcript polls.
	syncConsumer := rabbitmq.NewConsumer(conn, cfg.Queue, rabbitmq.SyncQueue, cfg.Server.Workers, msgHandler.TenantSyncHandler)
	go func() {
		if err := syncConsumer.Consume(ctx, serviceDeps); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("tenant sync consumer error")
		}
	}()

	pollConsumer := rabbitmq.NewConsumer(conn, cfg.Queue, rabbitmq.TranscriptPollQueue, cfg.Server.Workers, msgHandler.TranscriptPollHandler)
	go func() {
		if err := pollConsumer.Consume(ctx, serviceDeps); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("transcript poll consumer error")
		}
	}()

	r := gin.Default()
	addHealth(r)

	handler := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("start http server")
		if err := handler.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	if err := handler.Shutdown(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

func SetupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
