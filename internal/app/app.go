// Package app wires configuration into clients, the registration service and the gin engine.
// Clients are built once per process and reused by every invocation.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jornageo/registration/config"
	"github.com/jornageo/registration/internal/auth"
	"github.com/jornageo/registration/internal/metrics"
	"github.com/jornageo/registration/internal/mirror"
	"github.com/jornageo/registration/internal/notify"
	"github.com/jornageo/registration/internal/registrations"
	"github.com/jornageo/registration/pkg/awsclient"
	"github.com/jornageo/registration/pkg/redis"
	"github.com/jornageo/registration/pkg/secrets"
)

// App holds everything built from config.
type App struct {
	Engine   *gin.Engine
	Service  *registrations.Service
	Registry *prometheus.Registry

	logger  *zap.Logger
	closers []func() error
}

// New builds the application. Call Close when the process exits.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Registry: prometheus.NewRegistry(), logger: logger}
	m := metrics.New(a.Registry)

	var (
		awsCfg    aws.Config
		awsLoaded bool
	)
	loadAWS := func() (aws.Config, error) {
		if awsLoaded {
			return awsCfg, nil
		}
		c, err := awsclient.Load(ctx, awsclient.Options{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			EndpointURL:     cfg.AWS.EndpointURL,
		}, logger)
		if err != nil {
			return aws.Config{}, err
		}
		awsCfg, awsLoaded = c, true
		return awsCfg, nil
	}

	store, err := a.newStore(ctx, cfg, loadAWS)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []registrations.Option{registrations.WithMetrics(m)}

	n, err := a.newNotifier(cfg.Notify, loadAWS)
	if err != nil {
		a.Close()
		return nil, err
	}
	if n != nil {
		opts = append(opts, registrations.WithNotifier(n))
	}

	if cfg.Mirror.Enabled() {
		c, err := loadAWS()
		if err != nil {
			a.Close()
			return nil, err
		}
		sf := secrets.NewClient(secretsmanager.NewFromConfig(c))
		w := mirror.NewWriter(sf, nil, mirror.Config{
			SecretName:  cfg.Mirror.SecretName,
			DefaultPort: cfg.Mirror.Port,
			SSLMode:     cfg.Mirror.SSLMode,
		}, logger)
		opts = append(opts, registrations.WithMirror(w))
		logger.Info("relational mirror enabled", zap.String("secret", cfg.Mirror.SecretName))
	}

	a.Service = registrations.NewService(store, registrations.Features{AtomicInsert: cfg.Features.AtomicInsert}, logger, opts...)

	routerOpts := RouterOptions{CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins, Metrics: m}
	if cfg.Admin.JWTSecret != "" {
		routerOpts.Admin = auth.NewJWTService(cfg.Admin.JWTSecret, cfg.Admin.JWTExpireHours)
	}
	a.Engine = NewRouter(registrations.NewHandler(a.Service, logger), logger, routerOpts)
	return a, nil
}

// Close releases long-lived clients in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close client", zap.Error(err))
		}
	}
	a.closers = nil
}

func (a *App) newStore(ctx context.Context, cfg *config.Config, loadAWS func() (aws.Config, error)) (registrations.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendDynamoDB:
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		a.logger.Info("registration store: dynamodb", zap.String("table", cfg.Store.Table))
		return registrations.NewDynamoStore(dynamodb.NewFromConfig(c), cfg.Store.Table), nil
	case config.BackendRedis:
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return registrations.NewRedisStore(rdb.Client), nil
	case config.BackendMemory:
		a.logger.Warn("registration store: memory, data is lost on exit")
		return registrations.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// newNotifier returns nil when notification is not configured.
func (a *App) newNotifier(cfg config.NotifyConfig, loadAWS func() (aws.Config, error)) (registrations.Notifier, error) {
	switch notify.Mode(cfg.Mode) {
	case notify.ModePublish, notify.ModeSubscribe:
		if cfg.TopicARN == "" {
			a.logger.Info("notifications disabled: SNS_TOPIC_ARN not set")
			return nil, nil
		}
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		client := sns.NewFromConfig(c)
		a.logger.Info("notifier: sns", zap.String("mode", cfg.Mode), zap.String("topic", cfg.TopicARN))
		if notify.Mode(cfg.Mode) == notify.ModeSubscribe {
			return notify.NewSNSSubscriber(client, cfg.TopicARN), nil
		}
		return notify.NewSNSPublisher(client, cfg.TopicARN), nil
	case notify.ModeKafka:
		if len(cfg.KafkaBrokers) == 0 {
			a.logger.Info("notifications disabled: KAFKA_BROKERS not set")
			return nil, nil
		}
		w := notify.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, w.Close)
		a.logger.Info("notifier: kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return notify.NewKafkaPublisher(w), nil
	default:
		return nil, fmt.Errorf("unknown notify mode %q", cfg.Mode)
	}
}
