package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmorenov/servicedesk-backend/api/routes"
	"github.com/dmorenov/servicedesk-backend/internal/complaints"
	"github.com/dmorenov/servicedesk-backend/internal/customers"
	"github.com/dmorenov/servicedesk-backend/internal/engineers"
	"github.com/dmorenov/servicedesk-backend/internal/products"
	"github.com/dmorenov/servicedesk-backend/internal/settings"
	"github.com/dmorenov/servicedesk-backend/internal/spareparts"
	"github.com/dmorenov/servicedesk-backend/internal/stats"
	"github.com/dmorenov/servicedesk-backend/internal/users"
	"github.com/dmorenov/servicedesk-backend/pkg/config"
	"github.com/dmorenov/servicedesk-backend/pkg/db"
	"github.com/dmorenov/servicedesk-backend/pkg/logger"
	"github.com/dmorenov/servicedesk-backend/pkg/migrate"
	"github.com/dmorenov/servicedesk-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()

	settingsSvc, err := settings.NewService(settings.NewRepository(conn), redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	complaintsSvc, err := complaints.NewService(complaints.NewRepository(conn), dbClient, spareparts.NewDecrementer())
	if err != nil {
		logg.Error(context.Background(), "failed to create complaints service", err)
		os.Exit(1)
	}
	sparePartsSvc, err := spareparts.NewService(spareparts.NewRepository(conn), dbClient, settingsSvc, cfg.Inventory.LowStockFallback)
	if err != nil {
		logg.Error(context.Background(), "failed to create spare parts service", err)
		os.Exit(1)
	}
	customersSvc, err := customers.NewService(customers.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}
	engineersSvc, err := engineers.NewService(engineers.NewRepository(conn), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create engineers service", err)
		os.Exit(1)
	}
	productsSvc, err := products.NewService(products.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}
	statsSvc, err := stats.NewService(stats.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}
	usersSvc, err := users.NewService(users.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, routes.Services{
			Complaints: complaintsSvc,
			Customers:  customersSvc,
			Engineers:  engineersSvc,
			Products:   productsSvc,
			SpareParts: sparePartsSvc,
			Settings:   settingsSvc,
			Stats:      statsSvc,
			Users:      usersSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
