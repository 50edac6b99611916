package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/liftlog/liftlog/handlers"
	"github.com/liftlog/liftlog/internal/config"
	"github.com/liftlog/liftlog/internal/database"
	"github.com/liftlog/liftlog/internal/exerciselogs"
	"github.com/liftlog/liftlog/internal/identity"
	"github.com/liftlog/liftlog/internal/progress"
	"github.com/liftlog/liftlog/internal/supabase"
	"github.com/liftlog/liftlog/internal/workouts"
	"github.com/liftlog/liftlog/pkg/logger"
	"github.com/liftlog/liftlog/pkg/metrics"
	"github.com/liftlog/liftlog/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: supabase=%v postgres=%v redis=%v", cfg.Supabase.URL != "", cfg.Database.URL != "", cfg.Redis.Host != "")

	r := gin.New()
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigin))
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Token verifier: pinned secret when configured, JWKS discovery otherwise.
	// ALLOW_INSECURE_TOKEN=true swaps in the signature-free integration verifier.
	issuer := identity.Issuer(cfg.Supabase.URL)
	var verifier middleware.Verifier
	switch {
	case strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true"):
		logger.Warn("enabling insecure token verifier (integration mode)")
		verifier = identity.NewInsecureVerifier()
	case cfg.Supabase.JWTSecret != "":
		verifier = identity.NewStaticVerifier(cfg.Supabase.JWTSecret, issuer, "authenticated")
	default:
		ver, err := identity.NewJWKSVerifier(context.Background(), issuer, "authenticated")
		if err != nil {
			logger.Fatalf("failed to initialize JWKS verifier: %v", err)
		}
		verifier = ver
	}

	// Repositories: direct Postgres when DATABASE_URL is set, otherwise the
	// Supabase REST backend.
	var workoutRepo workouts.Repository
	var logRepo exerciselogs.Repository
	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		// Retry/backoff when connecting to tolerate startup races
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			pool, errConn = database.ConnectPostgres(context.Background(), cfg.Database.URL, cfg.Database.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to Postgres: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Fatalf("could not connect to Postgres after %d attempts: %v", maxAttempts, errConn)
		}
		defer pool.Close()
		workoutRepo = workouts.NewPostgresRepository(pool)
		logRepo = exerciselogs.NewPostgresRepository(pool)
		logger.Info("Using direct Postgres for storage")
	} else {
		sb := supabase.New(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		workoutRepo = workouts.NewSupabaseRepository(sb)
		logRepo = exerciselogs.NewSupabaseRepository(sb)
		logger.Info("Using Supabase REST backend for storage")
	}

	workoutSvc := workouts.NewService(workoutRepo)
	logSvc := exerciselogs.NewService(logRepo)
	progressSvc := progress.NewService(logRepo)

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint, 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["storage"] = workoutRepo != nil
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				deps["storage"] = false
			}
		}
		if !deps["storage"] {
			ready = false
		}

		deps["verifier"] = verifier != nil
		if verifier == nil {
			ready = false
		}

		if cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// All API routes require a verified bearer token.
	api := r.Group("/api/v1", middleware.AuthMiddleware(verifier))
	handlers.NewWorkoutHandler(workoutSvc).Register(api)
	handlers.NewExerciseLogHandler(logSvc).Register(api)
	handlers.NewProgressHandler(progressSvc).Register(api)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Route %s not found", c.Request.URL.Path)})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting liftlog API on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
