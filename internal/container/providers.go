package container

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/narwhalmedia/catalog/internal/application"
	appvideo "github.com/narwhalmedia/catalog/internal/application/video"
	domainevents "github.com/narwhalmedia/catalog/internal/domain/events"
	"github.com/narwhalmedia/catalog/internal/infrastructure/events"
	"github.com/narwhalmedia/catalog/internal/infrastructure/events/kafka"
	"github.com/narwhalmedia/catalog/internal/infrastructure/events/nats"
	"github.com/narwhalmedia/catalog/internal/infrastructure/events/rabbitmq"
	grpcserver "github.com/narwhalmedia/catalog/internal/infrastructure/grpc"
	gormrepo "github.com/narwhalmedia/catalog/internal/infrastructure/persistence/gorm"
	"github.com/narwhalmedia/catalog/internal/infrastructure/rest"
	"github.com/narwhalmedia/catalog/internal/infrastructure/storage"
	"github.com/narwhalmedia/catalog/pkg/auth"
	"github.com/narwhalmedia/catalog/pkg/config"
	"github.com/narwhalmedia/catalog/pkg/interfaces"
	"github.com/narwhalmedia/catalog/pkg/logger"
)

const (
	BrokerRabbitMQ = "rabbitmq"
	BrokerNATS     = "nats"
	BrokerKafka    = "kafka"
)

// Catalog holds everything cmd/catalog runs.
type Catalog struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *gorm.DB
	Router  *gin.Engine
	GRPC    *grpcserver.Server
	Broker  *Broker
	Convert *events.ConvertHandler
}

// Broker is the selected message broker. Subscriber is nil when the
// consumer is disabled; Health is nil when the driver has no cheap check.
type Broker struct {
	Bus        events.Bus
	Subscriber events.Subscriber
	Health     func(ctx context.Context) error
}

// Auth is nil when authentication is disabled.
type Auth struct {
	Validator *auth.TokenValidator
	RBAC      *auth.CasbinRBAC
}

// AuthGuards run before every catalog route.
type AuthGuards []gin.HandlerFunc

func provideZap(l *logger.ZapLogger) *zap.Logger {
	return l.Zap()
}

func provideAppLogger(l *logger.ZapLogger) interfaces.Logger {
	return l
}

func provideDispatcher(logger *zap.Logger) domainevents.DomainEventDispatcher {
	d := events.NewInMemoryDomainEventDispatcher()
	events.RegisterAuditHandlers(d, logger)
	return d
}

func provideStorage(cfg *config.Config, logger *zap.Logger) (application.Storage, func(), error) {
	return storage.New(context.Background(), cfg.Storage, logger)
}

func provideUploadPolicy(cfg *config.Config) appvideo.UploadPolicy {
	return appvideo.UploadPolicy{
		ImageMaxBytes:   cfg.Upload.ImageMaxBytes,
		TrailerMaxBytes: cfg.Upload.TrailerMaxBytes,
		VideoMaxBytes:   cfg.Upload.VideoMaxBytes,
		ImageMimeTypes:  cfg.Upload.ImageMimeTypes,
		VideoMimeTypes:  cfg.Upload.VideoMimeTypes,
	}
}

// provideBroker connects to the configured broker and declares what the
// consumer needs.
func provideBroker(cfg *config.Config, logger *zap.Logger) (*Broker, func(), error) {
	bc := cfg.Broker
	switch bc.Driver {
	case BrokerRabbitMQ:
		client, cleanup, err := rabbitmq.NewClient(bc.RabbitMQ, bc.ConvertRoutingKey, logger)
		if err != nil {
			return nil, nil, err
		}
		b := &Broker{Bus: rabbitmq.NewPublisher(client, logger), Health: client.Health}
		if bc.ConsumerEnabled {
			b.Subscriber = rabbitmq.NewConsumer(client, bc.MaxRetries, logger)
		}
		return b, cleanup, nil

	case BrokerNATS:
		client, cleanup, err := nats.NewClient(bc.NATS, []string{bc.UploadRoutingKey, bc.ConvertRoutingKey}, logger)
		if err != nil {
			return nil, nil, err
		}
		b := &Broker{Bus: nats.NewPublisher(client, logger), Health: client.Health}
		if bc.ConsumerEnabled {
			b.Subscriber = nats.NewConsumer(client, bc.ConvertRoutingKey, bc.MaxRetries, logger)
		}
		return b, cleanup, nil

	case BrokerKafka:
		publisher, err := kafka.NewPublisher(bc.Kafka.Brokers, logger)
		if err != nil {
			return nil, nil, err
		}
		b := &Broker{Bus: publisher}
		var consumer *kafka.Consumer
		if bc.ConsumerEnabled {
			consumer, err = kafka.NewConsumer(bc.Kafka.Brokers, bc.Kafka.GroupID, bc.ConvertRoutingKey, publisher, bc.MaxRetries, logger)
			if err != nil {
				_ = publisher.Close()
				return nil, nil, err
			}
			b.Subscriber = consumer
		}
		cleanup := func() {
			if consumer != nil {
				_ = consumer.Close()
			}
			_ = publisher.Close()
		}
		return b, cleanup, nil
	}
	return nil, nil, fmt.Errorf("unsupported broker driver: %q", bc.Driver)
}

func provideIntegrationPublisher(cfg *config.Config, broker *Broker, logger *zap.Logger) domainevents.IntegrationEventPublisher {
	return events.NewIntegrationEventPublisher(broker.Bus, events.DefaultRoutes(cfg.Broker.UploadRoutingKey), logger)
}

func provideAuth(cfg *config.Config, log interfaces.Logger) (*Auth, error) {
	if !cfg.Auth.Enabled {
		return nil, nil
	}
	validator, err := auth.NewTokenValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTPublicKey, cfg.Auth.Issuer)
	if err != nil {
		return nil, err
	}
	rbac, err := auth.NewCatalogRBAC(cfg.Auth.RequiredRole, log)
	if err != nil {
		return nil, err
	}
	return &Auth{Validator: validator, RBAC: rbac}, nil
}

func provideAuthGuards(a *Auth) AuthGuards {
	if a == nil {
		return nil
	}
	return AuthGuards{
		auth.GinAuthenticate(a.Validator),
		auth.GinAuthorize(a.RBAC, auth.ResourceCatalog),
	}
}

func provideVideoController(cfg *config.Config, svc *appvideo.ApplicationService) *rest.VideoController {
	return &rest.VideoController{
		VideoUsecase:   svc,
		MaxUploadBytes: cfg.Upload.MaxBytes(),
		UploadTimeout:  cfg.HTTP.UploadTimeout,
	}
}

func provideHealthController(cfg *config.Config, db *gorm.DB, broker *Broker) *rest.HealthController {
	checks := map[string]rest.Pinger{
		"database": func(ctx context.Context) error { return gormrepo.Ping(ctx, db) },
	}
	if broker.Health != nil {
		checks["broker"] = broker.Health
	}
	return &rest.HealthController{
		Service: cfg.Service.Name,
		Version: cfg.Service.Version,
		Checks:  checks,
	}
}

func provideRouter(cfg *config.Config, ctrls rest.Controllers, log *logger.ZapLogger, guards AuthGuards) *gin.Engine {
	if !cfg.Service.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	return rest.NewRouter(ctrls, log, guards...)
}

func provideGRPCServer(a *Auth, logger *zap.Logger) *grpcserver.Server {
	if a == nil {
		return grpcserver.NewServer(logger)
	}
	return grpcserver.NewServer(logger, auth.UnaryAuthInterceptor(
		a.Validator, a.RBAC, auth.ResourceCatalog,
		"/grpc.health.v1.Health/Check",
	))
}

// ReadinessInterval is how often the gRPC health status is refreshed.
const ReadinessInterval = 5 * time.Second
