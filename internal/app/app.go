package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/linkboard/internal/cache"
	"github.com/fsdevblog/linkboard/internal/config"
	"github.com/fsdevblog/linkboard/internal/controllers"
	"github.com/fsdevblog/linkboard/internal/db"
	"github.com/fsdevblog/linkboard/internal/geoip"
	"github.com/fsdevblog/linkboard/internal/services"
)

type App struct {
	config     config.Config
	dbServices *services.Services
	linkCache  *cache.LinkCache
	geo        *geoip.Resolver
	Logger     *logrus.Logger
}

func New(conf config.Config) (*App, error) {
	logger := config.NewLogger()

	ctx := context.Background()

	dbConn, connErr := db.NewSQLite(conf.DatabasePath, conf.DefaultDomain)
	if connErr != nil {
		return nil, fmt.Errorf("init database: %w", connErr)
	}

	linkCache, cacheErr := cache.New(ctx, conf.RedisAddr, logger)
	if cacheErr != nil {
		return nil, fmt.Errorf("init cache: %w", cacheErr)
	}

	geo, geoErr := geoip.New(conf.GeoIPDBPath, logger)
	if geoErr != nil {
		return nil, fmt.Errorf("init geoip: %w", geoErr)
	}

	dbServices := services.Factory(services.FactoryParams{
		DB:            dbConn,
		LinkCache:     linkCache,
		Geo:           geo,
		DefaultDomain: conf.DefaultDomain,
		Logger:        logger,
	})

	return &App{
		config:     conf,
		dbServices: dbServices,
		linkCache:  linkCache,
		geo:        geo,
		Logger:     logger,
	}, nil
}

// Must вызывает панику если произошла ошибка.
func Must(a *App, err error) *App {
	if err != nil {
		panic(err)
	}
	return a
}

// Run запускает web сервер и блокируется до сигнала остановки.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)

	server := controllers.SetupRouter(controllers.RouterParams{
		LinkService:     a.dbServices.LinkService,
		DomainService:   a.dbServices.DomainService,
		PageViewService: a.dbServices.PageViewService,
		AppConf:         a.config,
		Logger:          a.Logger,
	})

	go func() {
		if err := server.Run(a.config.ServerAddress); err != nil {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown command received")
	case serverErr = <-errChan:
		a.Logger.WithError(serverErr).Error("router error")
	}

	if closeErr := a.linkCache.Close(); closeErr != nil {
		a.Logger.WithError(closeErr).Error("closing cache client error")
	}
	if closeErr := a.geo.Close(); closeErr != nil {
		a.Logger.WithError(closeErr).Error("closing geoip reader error")
	}

	return serverErr
}
