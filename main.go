package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"golang.org/x/crypto/bcrypt"

	"slice-url/internal/config"
	"slice-url/internal/database"
	"slice-url/internal/identity"
	"slice-url/internal/jwt"
	"slice-url/internal/mailer"
	"slice-url/internal/middleware"
	"slice-url/internal/repository"
	"slice-url/internal/server"
	"slice-url/internal/service"
	"slice-url/internal/shortid"
)

// stores groups the repositories of the selected storage driver
type stores struct {
	links  repository.LinkRepository
	users  repository.UserRepository
	visits repository.VisitRepository
}

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Everything opened below is closed on shutdown
	var closers []io.Closer

	repos, err := openStores(ctx, cfg, &closers)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	// Redis visit counter (optional - continue with the store's counter if Redis is unavailable)
	if cfg.RedisURL != "" {
		visits, err := repository.NewRedisVisitRepository(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, counting visits in the main store", "error", err)
		} else {
			logger.Info("connected to redis visit counter")
			repos.visits = visits
			closers = append(closers, visits)
		}
	}

	// Confirmation mails
	var mail mailer.Mailer = mailer.NewLogMailer(logger)
	if cfg.SMTPEnabled() {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, logger)
	} else {
		logger.Warn("SMTP_HOST not set, confirmation mails are only logged")
	}

	// Social sign-in
	var verifier identity.Verifier = identity.DisabledVerifier{}
	if cfg.FirebaseProjectID != "" {
		fv, err := identity.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		verifier = fv
	} else {
		logger.Warn("FIREBASE_PROJECT_ID not set, social sign-in is disabled")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize services
	authService, err := service.NewAuthService(service.AuthDeps{
		Users:    repos.users,
		Tokens:   jwtService,
		Hasher:   service.NewBcryptHasher(bcrypt.DefaultCost),
		Mailer:   mail,
		Verifier: verifier,
		AppURL:   cfg.AppURL,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}
	linkService := service.NewLinkService(repos.links, shortid.New(), logger)
	resolverService := service.NewResolverService(repos.links, logger)
	visitService := service.NewVisitService(repos.visits)

	// Initialize rate limiters
	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuthMax, cfg.RateLimitWindow,
		"Too many attempts from this IP, please try again later.", logger)
	defer authLimiter.Stop()
	shortenLimiter := middleware.NewRateLimiter(cfg.RateLimitShortenMax, cfg.RateLimitWindow,
		"Too many links created from this IP, please try again later.", logger)
	defer shortenLimiter.Stop()

	router := server.NewRouter(server.Options{
		AuthService:     authService,
		LinkService:     linkService,
		ResolverService: resolverService,
		VisitService:    visitService,
		JWTService:      jwtService,
		BaseURL:         cfg.BaseURL,
		AuthLimiter:     authLimiter,
		ShortenLimiter:  shortenLimiter,
		Logger:          logger,
		AllowAllOrigins: cfg.IsDev(),
		CORSOrigin:      cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	for _, c := range closers {
		err = multierr.Append(err, c.Close())
	}
	if err != nil {
		logger.Error("shutdown finished with errors", "error", err)
		return
	}
	logger.Info("server stopped")
}

// openStores connects the configured storage driver and prepares its schema
func openStores(ctx context.Context, cfg *config.Config, closers *[]io.Closer) (*stores, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, db)

		// Run database migrations
		if err := database.RunMigrations(ctx, db); err != nil {
			return nil, err
		}
		return &stores{
			links:  repository.NewLinkRepository(db),
			users:  repository.NewUserRepository(db),
			visits: repository.NewVisitRepository(db),
		}, nil

	case config.DriverMongo:
		client, db, err := database.NewMongoConnection(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, closerFunc(func() error {
			return client.Disconnect(context.Background())
		}))

		if err := database.EnsureIndexes(ctx, db); err != nil {
			return nil, err
		}
		return &stores{
			links:  repository.NewMongoLinkRepository(db),
			users:  repository.NewMongoUserRepository(db),
			visits: repository.NewMongoVisitRepository(db),
		}, nil

	default:
		slog.Warn("using in-memory storage, data is lost on restart")
		return &stores{
			links:  repository.NewMemoryLinkRepository(),
			users:  repository.NewMemoryUserRepository(),
			visits: repository.NewMemoryVisitRepository(),
		}, nil
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
