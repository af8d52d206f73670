package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Denner-Esteves/painel-approve/internal/config"
	"github.com/Denner-Esteves/painel-approve/internal/infra/httpclient"
	s3infra "github.com/Denner-Esteves/painel-approve/internal/infra/s3"
	"github.com/Denner-Esteves/painel-approve/internal/jobs/cleanup"
	pgrepo "github.com/Denner-Esteves/painel-approve/internal/repo/postgres"
	redrepo "github.com/Denner-Esteves/painel-approve/internal/repo/redis"
	accesssvc "github.com/Denner-Esteves/painel-approve/internal/services/access"
	clientssvc "github.com/Denner-Esteves/painel-approve/internal/services/clients"
	directorysvc "github.com/Denner-Esteves/painel-approve/internal/services/directory"
	metasvc "github.com/Denner-Esteves/painel-approve/internal/services/meta"
	reviewsvc "github.com/Denner-Esteves/painel-approve/internal/services/review"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	cleanupJob *cleanup.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewReviewSessionRepo(redisClient)
	taskRepo := pgrepo.NewTaskRepo(pool)
	itemRepo := pgrepo.NewMediaItemRepo(pool)
	clientRepo := pgrepo.NewClientRepo(pool)
	folderRepo := pgrepo.NewFolderRepo(pool)
	txRunner := pgrepo.NewTxRunner(pool)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	accessService := accesssvc.NewService(taskRepo, sessionRepo, accesssvc.Config{
		AuthTTL:     cfg.Session.AuthTTL,
		ApproverTTL: cfg.Session.ApproverTTL,
	})
	reviewService := reviewsvc.NewService(taskRepo, itemRepo, txRunner, log)
	logoStorage := clientssvc.NewLogoStorage(s3Client, cfg.S3.Bucket, cfg.S3.PublicURL)
	clientService := clientssvc.NewService(clientRepo, logoStorage, log)
	directoryService := directorysvc.NewService(folderRepo, taskRepo, log)
	metaService := metasvc.NewService(clientRepo, httpclient.New(cfg.Meta.HTTPTimeout), metasvc.Config{
		AppID:       cfg.Meta.AppID,
		AppSecret:   cfg.Meta.AppSecret,
		RedirectURL: cfg.Meta.RedirectURL,
		GraphURL:    cfg.Meta.GraphURL,
	}, log)
	cleanupJob := cleanup.New(taskRepo, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AccessService:    accessService,
		ReviewService:    reviewService,
		ClientService:    clientService,
		DirectoryService: directoryService,
		MetaService:      metaService,
		Logger:           log,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		cleanupJob: cleanupJob,
		httpRouter: r,
	}, nil
}

// Run serves HTTP and keeps the cleanup sweep ticking until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	go a.cleanupJob.Start(ctx, a.cfg.Cleanup.Interval)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
