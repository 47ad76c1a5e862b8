package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kashodiya/milan/internal/config"
	"github.com/kashodiya/milan/internal/jobs/cleanup"
	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"
	redrepo "github.com/kashodiya/milan/internal/repo/redis"
	authsvc "github.com/kashodiya/milan/internal/services/auth"
	discoverysvc "github.com/kashodiya/milan/internal/services/discovery"
	membershipssvc "github.com/kashodiya/milan/internal/services/memberships"
	messagingsvc "github.com/kashodiya/milan/internal/services/messaging"
	profilessvc "github.com/kashodiya/milan/internal/services/profiles"
	relsvc "github.com/kashodiya/milan/internal/services/relationship"
	userssvc "github.com/kashodiya/milan/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	sweeper    *cleanup.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, cfg, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN, pgrepo.PoolOptions{
		MaxConns:        cfg.Postgres.MaxConns,
		MinConns:        cfg.Postgres.MinConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	preferenceRepo := pgrepo.NewPreferenceRepo(pool)
	connectionRepo := pgrepo.NewConnectionRepo(pool)
	membershipRepo := pgrepo.NewMembershipRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	candidateRepo := pgrepo.NewCandidateRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo)
	userService := userssvc.NewService(userRepo)
	profileService := profilessvc.NewService(profileRepo, preferenceRepo)
	membershipService := membershipssvc.NewService(membershipRepo)
	relationService := relsvc.NewService(connectionRepo)
	discoveryService := discoverysvc.NewService(profileRepo, preferenceRepo, candidateRepo, relationService)
	messagingService := messagingsvc.NewService(messageRepo, membershipService, relationService)

	sweeper := cleanup.NewMembershipSweep(membershipRepo, cfg.Jobs.MembershipSweepInterval, log)

	RegisterRoutes(r, Dependencies{
		AuthService:       authService,
		UserService:       userService,
		ProfileService:    profileService,
		MembershipService: membershipService,
		RelationService:   relationService,
		DiscoveryService:  discoveryService,
		MessagingService:  messagingService,
		Logger:            log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		sweeper:    sweeper,
		httpRouter: r,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	go a.sweeper.Start(ctx)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)

	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}

	return err
}

// Handler exposes the routed handler for tests.
func (a *App) Handler() http.Handler {
	return a.httpRouter
}
