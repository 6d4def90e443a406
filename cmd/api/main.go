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

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"weddingbudget/internal/allocation"
	"weddingbudget/internal/config"
	"weddingbudget/internal/database"
	"weddingbudget/internal/logger"
	"weddingbudget/internal/metrics"
	"weddingbudget/internal/server"
	"weddingbudget/internal/services"
	"weddingbudget/internal/textgen"
	"weddingbudget/internal/validator"
)

// @title           Wedding Budget API
// @version         1.0
// @description     Wedding Budget distributes a wedding budget across spending categories, rates the budget per guest and suggests where to save.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	tables := allocation.DefaultTables()
	if appConfig.AllocationTablesPath != "" {
		tables, err = allocation.LoadTables(appConfig.AllocationTablesPath)
		if err != nil {
			return fmt.Errorf("failed to load allocation tables: %w", err)
		}
		log.Infof("Loaded allocation tables from %s", appConfig.AllocationTablesPath)
	}

	engine, err := allocation.NewEngine(tables, log)
	if err != nil {
		return fmt.Errorf("failed to create allocation engine: %w", err)
	}
	validator.Register(tables)

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("Failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	var generator textgen.Generator
	if appConfig.GenAIAPIKey != "" {
		g, err := textgen.NewGenAIGenerator(ctx, textgen.GenAIConfig{
			APIKey: appConfig.GenAIAPIKey,
			Model:  appConfig.GenAIModel,
		})
		if err != nil {
			return fmt.Errorf("failed to create text generator: %w", err)
		}
		generator = g
		log.Infof("Generated recommendations enabled with model %s", g.Model())
	} else {
		log.Info("GENAI_API_KEY not set, using rule-based recommendations only")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	budgetService := services.NewBudgetService(db, engine, services.BudgetServiceConfig{
		Generator:             generator,
		Metrics:               m,
		Audit:                 auditService,
		RecommendationTimeout: appConfig.RecommendationTimeout,
		PersistTimeout:        appConfig.PersistTimeout,
	})

	router := server.NewRouter(server.Dependencies{
		UserService:   userService,
		BudgetService: budgetService,
		AuditService:  auditService,
		Metrics:       m,
		Gatherer:      prometheus.DefaultGatherer,
		MetricsAPIKey: appConfig.MetricsAPIKey,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting Wedding Budget server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	// Let background persistence finish before the database is closed.
	budgetService.Wait()
	return err
}
