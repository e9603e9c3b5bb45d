package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-book-catalog/internal/facades"
	"github.com/sbilibin2017/gw-book-catalog/internal/handlers"
	"github.com/sbilibin2017/gw-book-catalog/internal/jwt"
	"github.com/sbilibin2017/gw-book-catalog/internal/logger"
	"github.com/sbilibin2017/gw-book-catalog/internal/middlewares"
	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/repositories"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/sbilibin2017/gw-book-catalog/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-book-catalog API
// @version 1.0.0
// @description Book catalog service with reviews, AI summaries and recommendations
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, recCacheTTLSecond,
		kafkaBrokers, kafkaTopic,
		chatBaseURL, chatAPIKey, chatModel, chatTimeoutSecond,
		jwtSecret, jwtExpSecond,
		bookMutationRole,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, recCacheTTLSecond,
		kafkaBrokers, kafkaTopic,
		chatBaseURL, chatAPIKey, chatModel, chatTimeoutSecond,
		jwtSecret, jwtExpSecond,
		bookMutationRole,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis, Kafka, chat gateway, logging and JWT
// configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, recCacheTTLSecond int,
	kafkaBrokers, kafkaTopic string,
	chatBaseURL, chatAPIKey, chatModel string, chatTimeoutSecond int,
	jwtSecretKey string, jwtExpSecond int,
	bookMutationRole models.Role,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")
	if bookMutationRole, err = models.ParseRole(getEnv("APP_BOOK_MUTATION_ROLE", "user")); err != nil {
		return
	}

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "database")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if redisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return
	}
	if redisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return
	}
	if recCacheTTLSecond, err = strconv.Atoi(getEnv("RECOMMENDATION_CACHE_TTL_SECOND", "1800")); err != nil {
		return
	}

	// Kafka config; review events are disabled when no brokers are set
	kafkaBrokers = getEnv("KAFKA_BROKERS", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "book-catalog.reviews")

	// Chat gateway config
	chatBaseURL = getEnv("CHAT_API_BASE_URL", "https://api.openai.com/v1")
	chatAPIKey = getEnv("CHAT_API_KEY", "")
	chatModel = getEnv("CHAT_MODEL", "gpt-4o-mini")
	if chatTimeoutSecond, err = strconv.Atoi(getEnv("CHAT_TIMEOUT_SECOND", "30")); err != nil {
		return
	}

	// JWT config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "1800")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, the chat gateway
// client and the HTTP server. It sets up routes, applies middleware,
// and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, recCacheTTLSecond int,
	kafkaBrokers, kafkaTopic string,
	chatBaseURL, chatAPIKey, chatModel string, chatTimeoutSecond int,
	jwtSecretKey string, jwtExpSecond int,
	bookMutationRole models.Role,
) error {
	// Initialize logger
	log, err := logger.New(logLevel)
	if err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer log.Sync()
	log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	log.Infof("Connecting to PostgreSQL at %s:%d/%s", pgHost, pgPort, pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("PostgreSQL ping failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password:     redisPassword,
		DB:           redisDB,
		PoolSize:     redisPoolSize,
		MinIdleConns: redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka writer for review events, optional
	var reviewEvents services.KafkaWriter
	if kafkaBrokers != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(kafkaBrokers, ",")...),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		reviewEvents = w
		log.Infof("Kafka review events enabled, topic %s", kafkaTopic)
	}

	// Chat gateway client
	chatTimeout := time.Duration(chatTimeoutSecond) * time.Second
	chatFacade := facades.NewChatCompletionFacade(chatBaseURL, chatAPIKey, chatModel, chatTimeout, log)

	// Initialize JWT service
	jwtSvc := jwt.New(
		jwt.WithSecretKey(jwtSecretKey),
		jwt.WithExpiration(time.Duration(jwtExpSecond)*time.Second),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db, log)
	userWriteRepo := repositories.NewUserWriteRepository(db, middlewares.GetTxFromContext, log)
	bookReadRepo := repositories.NewBookReadRepository(db, log)
	bookWriteRepo := repositories.NewBookWriteRepository(db, middlewares.GetTxFromContext, log)
	reviewReadRepo := repositories.NewReviewReadRepository(db, log)
	reviewWriteRepo := repositories.NewReviewWriteRepository(db, middlewares.GetTxFromContext, log)
	recCacheRepo := repositories.NewRecommendationCacheRepository(rdb, time.Duration(recCacheTTLSecond)*time.Second, log)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, jwtSvc, log)
	bookService := services.NewBookService(bookReadRepo, bookWriteRepo, reviewReadRepo, chatFacade, chatTimeout, log)
	reviewService := services.NewReviewService(bookReadRepo, reviewReadRepo, reviewWriteRepo, reviewEvents, log)
	recService := services.NewRecommendationService(chatFacade, recCacheRepo, chatTimeout, log)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService, log)
	loginHandler := handlers.NewLoginHandler(authService, log)
	meHandler := handlers.NewMeHandler()
	bookListHandler := handlers.NewBookListHandler(bookService, log)
	bookGetHandler := handlers.NewBookGetHandler(bookService, log)
	bookCreateHandler := handlers.NewBookCreateHandler(bookService, log)
	bookUpdateHandler := handlers.NewBookUpdateHandler(bookService, log)
	bookDeleteHandler := handlers.NewBookDeleteHandler(bookService, log)
	reviewCreateHandler := handlers.NewReviewCreateHandler(reviewService, log)
	reviewListHandler := handlers.NewReviewListHandler(reviewService, log)
	bookSummaryHandler := handlers.NewBookSummaryHandler(bookService, log)
	generateSummaryHandler := handlers.NewGenerateSummaryHandler(bookService, log)
	recommendationsHandler := handlers.NewRecommendationsHandler(recService, log)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(log))

	// Public routes
	r.Post("/register", registerHandler)
	r.Post("/login", loginHandler)

	// Protected routes; identity resolution runs before any role check
	authMiddleware := middlewares.AuthMiddleware(jwtSvc, authService, log)
	txMiddleware := middlewares.TxMiddleware(db, log)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/me", meHandler)
		r.Get("/books", bookListHandler)
		r.Get("/books/{bookID}", bookGetHandler)
		r.Get("/books/{bookID}/reviews", reviewListHandler)
		r.Get("/books/{bookID}/summary", bookSummaryHandler)
		r.Get("/recommendations", recommendationsHandler)

		// Catalog mutations, role-gated per configuration
		r.Group(func(r chi.Router) {
			if bookMutationRole != models.RoleUser {
				r.Use(middlewares.RequireRole(bookMutationRole))
			}
			r.Use(txMiddleware)
			r.Post("/books", bookCreateHandler)
			r.Put("/books/{bookID}", bookUpdateHandler)
			r.Delete("/books/{bookID}", bookDeleteHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(txMiddleware)
			r.Post("/books/{bookID}/reviews", reviewCreateHandler)
		})

		// Summary generation calls the chat gateway, so it runs
		// without a request transaction.
		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireRole(models.RoleAdmin))
			r.Post("/books/{bookID}/generate-summary", generateSummaryHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
