// Package bakeryadmin собирает административный backend: хранилище,
// миграции, кеш, брокер сообщений, сервисы и HTTP-сервер.
package bakeryadmin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/bakery-admin/internal/cache"
	"github.com/magabrotheeeer/bakery-admin/internal/config"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/bakery-admin/internal/migrations"
	"github.com/magabrotheeeer/bakery-admin/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/bakery-admin/internal/services/auth"
	provisionservice "github.com/magabrotheeeer/bakery-admin/internal/services/provision"
	readerservice "github.com/magabrotheeeer/bakery-admin/internal/services/reader"
	statusservice "github.com/magabrotheeeer/bakery-admin/internal/services/status"
	"github.com/magabrotheeeer/bakery-admin/internal/storage/repository"
)

// App держит собранный HTTP-сервер и ресурсы, которые нужно закрыть
// при остановке.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
}

// New собирает приложение из конфигурации: прогоняет миграции, поднимает
// соединения и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetProvisioningQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewService(db, jwtMaker)
	statusService := statusservice.NewService(db, logger)
	provisionService := provisionservice.NewService(db, db, db, db, publisher, cacheRedis, logger, cfg.ProductName)
	readerService := readerservice.NewService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, statusService, provisionService, readerService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   conn,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или сбоя
// сервера. При остановке дает серверу 15 секунд на дослуживание запросов.
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
		_ = a.db.DB.Close()
		_ = a.amqp.Close()
		return err
	}
}
