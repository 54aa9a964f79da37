package mineai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/cache"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/config"
	jwtlib "github.com/debeerphilip63-prog/Mineaiclean/internal/lib/jwt"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/rabbitmq"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/sl"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/llmprovider"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/migrations"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/payfast"
	billingservice "github.com/debeerphilip63-prog/Mineaiclean/internal/services/billing"
	charactersservice "github.com/debeerphilip63-prog/Mineaiclean/internal/services/characters"
	chatservice "github.com/debeerphilip63-prog/Mineaiclean/internal/services/chat"
	imagesservice "github.com/debeerphilip63-prog/Mineaiclean/internal/services/images"
	quotaservice "github.com/debeerphilip63-prog/Mineaiclean/internal/services/quota"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/storage/repository"
)

// App держит собранный HTTP-сервер и внешние подключения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

// New инициализирует все зависимости и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	var chatCache chatservice.Cache
	if cfg.RedisConnection.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		chatCache = cacheRedis
	} else {
		logger.Warn("redis address is empty, character cache disabled")
	}

	var amqpConn *amqp.Connection
	var publisher billingservice.UpgradePublisher
	if cfg.AMQPAddress != "" {
		conn, ch, err := rabbitmq.Connect(cfg.AMQPAddress)
		if err != nil {
			return nil, err
		}
		amqpConn = conn
		publisher = billingservice.NewAMQPPublisher(ch)
	} else {
		logger.Warn("amqp address is empty, upgrade events will not be published")
	}

	payfastCfg := payfast.Config{
		MerchantID:      cfg.PayFast.MerchantID,
		MerchantKey:     cfg.PayFast.MerchantKey,
		Passphrase:      cfg.PayFast.Passphrase,
		Sandbox:         cfg.PayFast.Sandbox,
		SiteURL:         cfg.PayFast.SiteURL,
		Amount:          cfg.PayFast.Amount,
		ItemName:        cfg.PayFast.ItemName,
		ItemDescription: cfg.PayFast.ItemDescription,
	}
	verifier := payfast.NewVerifier(payfastCfg, logger)

	llmClient := llmprovider.NewClient(cfg.LLMProvider)
	tokenMaker := jwtlib.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	billingSvc := billingservice.New(db, payfastCfg, publisher, logger)
	quotaSvc := quotaservice.New(db, logger)
	chatSvc := chatservice.New(db, quotaSvc, llmClient, chatCache, logger)
	charactersSvc := charactersservice.New(db, logger)
	imagesSvc := imagesservice.New(db, llmClient, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, tokenMaker, verifier,
		billingSvc, chatSvc, imagesSvc, charactersSvc)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		if a.amqpConn != nil {
			if closeErr := a.amqpConn.Close(); closeErr != nil {
				a.logger.Error("failed to close amqp connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
