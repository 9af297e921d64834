package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	complianceApp "github.com/healthsms/golang_services/internal/compliance_service/app"
	compliancePostgres "github.com/healthsms/golang_services/internal/compliance_service/repository/postgres"
	numberApp "github.com/healthsms/golang_services/internal/number_service/app"
	numberPostgres "github.com/healthsms/golang_services/internal/number_service/repository/postgres"
	"github.com/healthsms/golang_services/internal/platform/config"
	"github.com/healthsms/golang_services/internal/platform/database"
	"github.com/healthsms/golang_services/internal/platform/logger"
	"github.com/healthsms/golang_services/internal/platform/messagebroker"
	portingCache "github.com/healthsms/golang_services/internal/porting_service/adapters/cache"
	portingApp "github.com/healthsms/golang_services/internal/porting_service/app"
	portingDomain "github.com/healthsms/golang_services/internal/porting_service/domain"
	portingPostgres "github.com/healthsms/golang_services/internal/porting_service/repository/postgres"
	"github.com/healthsms/golang_services/internal/provider"
	httptransport "github.com/healthsms/golang_services/internal/public_api_service/transport/http"
)

const (
	serviceName     = "public_api_service"
	shutdownTimeout = 30 * time.Second
)

// newGateway picks the provider implementation: the simulator when asked for,
// Twilio when credentials are present, otherwise a gateway that reports 503.
func newGateway(cfg *config.Config, appLogger *slog.Logger) provider.Gateway {
	switch {
	case cfg.ProviderMode == "mock":
		appLogger.Warn("Using simulated provider gateway")
		return provider.NewMockGateway(appLogger, true, 0)
	case cfg.ProviderConfigured():
		return provider.NewTwilioGateway(provider.TwilioConfig{
			AccountSID:        cfg.TwilioAccountSID,
			AuthToken:         cfg.TwilioAuthToken,
			TrustHubPolicySID: cfg.TwilioTrustHubPolicySID,
			TrustHubBaseURL:   cfg.TwilioTrustHubBaseURL,
			MessagingBaseURL:  cfg.TwilioMessagingBaseURL,
			NumbersBaseURL:    cfg.TwilioNumbersBaseURL,
			APIBaseURL:        cfg.TwilioAPIBaseURL,
			CallTimeout:       cfg.ProviderCallTimeout,
			RateLimitRPS:      cfg.ProviderRateLimitRPS,
		}, appLogger, nil)
	default:
		appLogger.Warn("Twilio credentials not configured; provider-backed endpoints will return 503")
		return provider.UnavailableGateway{}
	}
}

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel).With("service", serviceName)
	appLogger.Info("Public API service starting...", "port", cfg.ServerPort)

	webhookToken, err := cfg.WebhookSigningToken()
	if err != nil {
		appLogger.Error("Refusing to serve unsigned provider webhooks", "error", err)
		os.Exit(1)
	}

	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	if cfg.RunMigrations {
		migrator, err := database.NewMigrator(cfg.PostgresDSN, appLogger)
		if err != nil {
			appLogger.Error("Failed to create migrator", "error", err)
			os.Exit(1)
		}
		if err := migrator.Up(); err != nil {
			appLogger.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
		if err := migrator.Close(); err != nil {
			appLogger.Warn("Failed to close migrator", "error", err)
		}
	}

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Connected to PostgreSQL database")

	var publisher messagebroker.Publisher = messagebroker.NoopPublisher{}
	if cfg.NATSEnabled {
		natsClient, err := messagebroker.NewNatsClient(cfg.NATSUrl, serviceName, appLogger)
		if err != nil {
			appLogger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		publisher = natsClient
		appLogger.Info("Connected to NATS", "url", cfg.NATSUrl)
	}
	events := messagebroker.NewEventPublisher(publisher, appLogger)

	var portabilityCache portingDomain.PortabilityCache = portingCache.NoopPortabilityCache{}
	if cfg.RedisEnabled {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(mainCtx).Err(); err != nil {
			appLogger.Error("Failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		portabilityCache = portingCache.NewRedisPortabilityCache(redisClient, cfg.PortabilityCacheTTL, appLogger)
		appLogger.Info("Connected to Redis", "addr", cfg.RedisAddr)
	}

	gateway := newGateway(cfg, appLogger)

	// Repositories
	orgRepo := compliancePostgres.NewPgOrganizationRepository(dbPool, appLogger)
	phoneRepo := numberPostgres.NewPgPhoneNumberRepository(dbPool, appLogger)
	authorizedRepo := numberPostgres.NewPgAuthorizedNumberRepository(dbPool, appLogger)
	portRepo := portingPostgres.NewPgPortRequestRepository(dbPool, appLogger)

	// Application services
	brands := complianceApp.NewBrandRegistrationManager(orgRepo, gateway, events, appLogger, cfg.TwilioTrustHubPolicySID, cfg.DefaultComplianceEmail)
	campaigns := complianceApp.NewCampaignRegistrationManager(orgRepo, phoneRepo, gateway, events, appLogger, cfg.PublicBaseURL, cfg.CampaignAssociationConcurrency)
	statusSvc := complianceApp.NewStatusReconciliationService(orgRepo, phoneRepo, gateway, events, appLogger)
	registry := numberApp.NewForwardingRegistry(authorizedRepo, appLogger)
	numbers := numberApp.NewNumberService(phoneRepo, registry, gateway, appLogger)
	ingestor := portingApp.NewPortStatusIngestor(portRepo, events, appLogger)
	ports := portingApp.NewPortRequestOrchestrator(portRepo, gateway, portabilityCache, ingestor, events, appLogger)

	validate := validator.New()
	routerCfg := httptransport.RouterConfig{
		Compliance:       httptransport.NewComplianceHandler(brands, campaigns, statusSvc, appLogger, validate),
		Porting:          httptransport.NewPortingHandler(ports, ingestor, appLogger, validate),
		AuthorizedNumber: httptransport.NewAuthorizedNumberHandler(registry, appLogger, validate),
		PhoneNumbers:     httptransport.NewPhoneNumberHandler(numbers, appLogger, validate),
		JWTSecret:        cfg.JWTSecret,
		PublicBaseURL:    cfg.PublicBaseURL,
		WebhookAuthToken: webhookToken,
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           httptransport.NewRouter(routerCfg, appLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to serve", "error", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		stopSignal := make(chan os.Signal, 1)
		signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(stopSignal)
		select {
		case sig := <-stopSignal:
			appLogger.Info("Received termination signal", "signal", sig.String())
			mainCancel()
		case <-groupCtx.Done():
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Shutting down HTTP server...")
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := httpServer.Shutdown(ctxShutdown); err != nil {
			appLogger.Error("HTTP server shutdown failed", "error", err)
			return err
		}
		appLogger.Info("HTTP server shut down gracefully.")
		return nil
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Public API service exited with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Public API service shut down.")
}
