package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/ChaseWoodhams/xytex-sub002/config"
	"github.com/ChaseWoodhams/xytex-sub002/internal/repositories/account"
	"github.com/ChaseWoodhams/xytex-sub002/internal/repositories/auditlog"
	"github.com/ChaseWoodhams/xytex-sub002/internal/repositories/dependent"
	"github.com/ChaseWoodhams/xytex-sub002/internal/repositories/location"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/audit"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/database"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/kafka"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/matching"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/merging"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/middleware"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	accountroutes "github.com/ChaseWoodhams/xytex-sub002/pkg/routes/account"
	auditroutes "github.com/ChaseWoodhams/xytex-sub002/pkg/routes/audit"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/routes/dedupe"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/routes/health"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/routes/integrity"
	locationroutes "github.com/ChaseWoodhams/xytex-sub002/pkg/routes/location"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/startup"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/topology"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/tracing"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/tracing/exporters"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/validation"
)

const version = "1.0.0"

// profileStore joins the account and location repositories into the single
// read surface the matching service expects
type profileStore struct {
	accounts  *account.Repository
	locations *location.Repository
}

func (p *profileStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return p.accounts.ListAccounts(ctx)
}

func (p *profileStore) ListLocations(ctx context.Context) ([]models.Location, error) {
	return p.locations.ListLocations(ctx)
}

// dependency adapts a pair of closures to the startup graph
type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dependency) GetName() string                 { return d.name }
func (d *dependency) DependsOn() []string             { return d.dependsOn }
func (d *dependency) Start(ctx context.Context) error { return d.start(ctx) }
func (d *dependency) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	return d.stop(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zlog, err := buildZapLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer zlog.Sync()

	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		data, err := json.Marshal(msg)
		if err != nil {
			zlog.Error("failed to encode log message", zap.Error(err))
			return
		}
		zlog.Info(string(data))
	})

	exporter := &exporters.ConsoleExporter{}
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tracerProvider)
	tracing.SetTracer(otel.Tracer(cfg.AppName))

	ctx := context.Background()

	var db *database.DatabaseInstance
	var producer *kafka.Producer
	var e *echo.Echo
	var checker *health.Checker

	s := startup.NewStartup(logger, cfg.StartupMaxAttempts)

	s.AddDependency(&dependency{
		name: "database",
		start: func(ctx context.Context) error {
			connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			db, err = database.Connect(connectCtx, logger, database.ConnectionConfig{
				Host:            cfg.DatabaseHost,
				Port:            cfg.DatabasePort,
				UserName:        cfg.DatabaseUserName,
				Password:        cfg.DatabasePassword,
				Name:            cfg.DatabaseName,
				SSLMode:         cfg.DatabaseSSLMode,
				MaxOpenConns:    cfg.DatabaseMaxOpenConns,
				MaxIdleConns:    cfg.DatabaseMaxIdleConns,
				ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
			})
			if err != nil {
				return err
			}

			driver, err := postgres.WithInstance(db.SQLDB(), &postgres.Config{})
			if err != nil {
				return err
			}

			migrations := database.NewMigrationService(logger, &database.MigrationConfig{
				MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
				Version:             uint(cfg.DatabaseMigrationVersion),
				Force:               cfg.DatabaseMigrationForce,
			})
			return migrations.Migrate(cfg.DatabaseName, driver)
		},
		stop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	s.AddDependency(&dependency{
		name: "kafka-producer",
		start: func(ctx context.Context) error {
			if !cfg.KafkaProducerEnabled {
				logger.WithContext(ctx).Info("Kafka producer disabled")
				return nil
			}
			producer = kafka.NewProducer(kafka.ProducerConfig{
				Brokers:      cfg.KafkaBrokers,
				Topic:        cfg.KafkaOutputTopic,
				BatchSize:    cfg.KafkaBatchSize,
				BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
				RequiredAcks: cfg.KafkaRequiredAcks,
			}, logger)
			return nil
		},
		stop: func(ctx context.Context) error {
			if producer == nil {
				return nil
			}
			return producer.Close()
		},
	})

	s.AddDependency(&dependency{
		name:      "http-server",
		dependsOn: []string{"database", "kafka-producer"},
		start: func(ctx context.Context) error {
			container, err := buildContainer(cfg, db, producer, logger)
			if err != nil {
				return err
			}

			e = echo.New()
			e.HideBanner = true
			e.HidePort = true
			e.Validator = validation.NewRequestValidator()

			e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
			e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
			e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
			e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
			e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

			e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
				AllowOrigins: cfg.AllowOrigins,
				AllowMethods: cfg.AllowMethods,
			}))
			e.Use(middleware.Context())
			e.Use(middleware.Logger(logger))
			e.Use(otelecho.Middleware(cfg.AppName))
			e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					reqCtx, err := ectoinject.SetActiveContainer(c.Request().Context(), container.GetContainerID())
					if err != nil {
						return err
					}
					c.SetRequest(c.Request().WithContext(reqCtx))
					return next(c)
				}
			})
			e.HTTPErrorHandler = middleware.Error(logger)

			checker = health.NewChecker(db, version)
			checker.RegisterRoutes(e)

			api := e.Group("/api/v1")
			dedupe.Register(api.Group("/duplicate-candidates"))
			auditroutes.Register(api.Group("/audit"))
			integrity.Register(api.Group("/integrity"))

			operator := middleware.RequireOperator()
			accountroutes.Register(api.Group("/accounts", operator))
			locationroutes.Register(api.Group("/locations", operator))

			go func() {
				addr := fmt.Sprintf(":%d", cfg.Port)
				logger.WithContext(ctx).WithField("addr", addr).Info("Starting HTTP server")
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					logger.WithContext(ctx).WithError(err).Error("HTTP server stopped")
				}
			}()
			checker.SetReady(true)
			return nil
		},
		stop: func(ctx context.Context) error {
			checker.SetReady(false)
			return e.Shutdown(ctx)
		},
	})

	if err := s.Start(ctx); err != nil {
		logger.WithContext(ctx).WithError(err).Error("Startup failed")
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Stop(shutdownCtx); err != nil {
		logger.WithContext(shutdownCtx).WithError(err).Error("Shutdown failed")
		os.Exit(1)
	}
	_ = tracerProvider.Shutdown(shutdownCtx)
}

func buildZapLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.PrettyLogs {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildContainer wires repositories, engines, and services into the DI
// container that every request handler resolves from.
func buildContainer(cfg *config.Config, db *database.DatabaseInstance, producer *kafka.Producer, logger ectologger.Logger) (ectocontainer.DIContainer, error) {
	accounts := account.NewRepository(db, logger)
	locations := location.NewRepository(db, logger)
	dependents := dependent.NewRepository(db, logger)
	auditLog := auditlog.NewRepository(db, logger)

	txRunner := database.NewTxRunner(db, logger)

	var publisher audit.Publisher
	if producer != nil {
		publisher = producer
	}
	recorder := audit.NewRecorder(auditLog, publisher, logger)

	scorer := matching.NewScorer()
	grouper := matching.NewGrouper(scorer, matching.NewExhaustiveComparer()).
		WithThresholds(cfg.NameMatchThreshold, cfg.AddressMatchConfidence)
	matchingService := matching.NewService(&profileStore{accounts: accounts, locations: locations}, grouper, logger)

	engine := merging.NewEngine(accounts, locations, dependents, txRunner, recorder, logger)
	mutator := topology.NewMutator(accounts, locations, dependents, txRunner, recorder, logger)

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return nil, err
	}

	if err := ectoinject.RegisterInstance[*auditlog.Repository](container, auditLog); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[*matching.Service](container, matchingService); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[*merging.Engine](container, engine); err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[*topology.Mutator](container, mutator); err != nil {
		return nil, err
	}

	return container, nil
}
