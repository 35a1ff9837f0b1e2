package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talent-match/internal/config"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/domain/matching"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/infrastructure/extractor"
	"talent-match/internal/infrastructure/queue"
	"talent-match/internal/pkg/jwt"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"
	"talent-match/internal/worker"
	"talent-match/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	connectTimeout = 10 * time.Second
	tokenLifetime  = 24 * time.Hour
)

// Container owns every long-lived dependency of the process.
type Container struct {
	Config config.Config
	Log    *zap.Logger

	DB        *dbpostgres.Pool
	Cache     *cache.Redis
	JWT       *jwt.HMACService
	Hub       *ws.Hub
	Pool      *worker.Pool
	Publisher *queue.AMQPPublisher

	Evaluation *usecase.Evaluation
	Analysis   *usecase.ApplicationAnalysis
}

type ContainerOptions struct {
	// WithoutDispatch builds the analysis use case with no dispatcher, as the
	// AMQP consumer does.
	WithoutDispatch bool
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger, opts ContainerOptions) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Container{Config: cfg, Log: log}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if cfg.Database.Enabled() {
		db, err := dbpostgres.Connect(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		c.DB = db
	} else {
		log.Warn("database not configured; job evaluation and analysis are disabled")
	}

	c.Cache = cache.NewRedis(ctx, cfg.Redis, log)
	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, tokenLifetime)
	c.Hub = ws.NewHub(log)

	evalDeps := usecase.EvaluationDeps{
		Evaluator: matching.NewEvaluator(
			matching.NewScorer(cfg.Scoring.Weights),
			cfg.Scoring.ShortlistThreshold,
		),
		MaxCandidates: cfg.Scoring.MaxCandidates,
		Log:           log,
	}
	if c.Cache.Available() {
		evalDeps.Cache = c.Cache
	}

	analysisDeps := usecase.AnalysisDeps{
		Extractor: extractor.NewClient(cfg.Extractor.BaseURL, cfg.Extractor.Timeout, log),
		Notifier:  c.Hub,
		Log:       log,
	}

	if c.DB != nil {
		apps := repository.NewPostgresApplicationRepository(c.DB)
		evalDeps.Jobs = repository.NewPostgresJobRepository(c.DB)
		evalDeps.Applications = apps
		evalDeps.Reports = repository.NewPostgresEvaluationReportRepository(c.DB)
		analysisDeps.Applications = apps
	}

	if !opts.WithoutDispatch {
		dispatcher, err := c.newDispatcher()
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		analysisDeps.Dispatcher = dispatcher
	}

	c.Evaluation = usecase.NewEvaluationUsecase(evalDeps)
	c.Analysis = usecase.NewApplicationAnalysisUsecase(analysisDeps)
	return c, nil
}

func (c *Container) newDispatcher() (usecase.AnalysisDispatcher, error) {
	q := c.Config.Queue
	switch q.Driver {
	case config.QueueDriverAMQP:
		pub, err := queue.NewAMQPPublisher(q.AMQPURL, q.QueueName, c.Log)
		if err != nil {
			return nil, fmt.Errorf("amqp publisher: %w", err)
		}
		c.Publisher = pub
		return pub, nil
	default:
		c.Pool = worker.NewPool(worker.Options{
			Workers:     q.Workers,
			Buffer:      q.Buffer,
			RatePerSec:  q.RatePerSec,
			TaskTimeout: q.TaskTimeout,
		}, c.Log)
		// c.Analysis is assigned after the dispatcher is built.
		return queue.NewMemoryDispatcher(c.Pool, c.analyze), nil
	}
}

func (c *Container) analyze(ctx context.Context, applicationID uuid.UUID) error {
	_, err := c.Analysis.AnalyzeApplication(ctx, applicationID)
	return err
}

// Start launches the background loops that live as long as ctx.
func (c *Container) Start(ctx context.Context) {
	go c.Hub.Run(ctx)
	if c.Pool != nil {
		c.Pool.Start(ctx)
	}
}

// TokenValidator admits tokens that may read evaluation events.
func (c *Container) TokenValidator() ws.TokenValidator {
	return func(token string) error {
		claims, err := c.JWT.ValidateToken(token)
		if err != nil {
			return err
		}
		if !claims.CanEvaluate() {
			return errors.New("role may not subscribe to analyses")
		}
		return nil
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
