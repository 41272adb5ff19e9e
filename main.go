package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fritterhq/fritter-services/handlers"
	"github.com/fritterhq/fritter-services/internal/alerts"
	"github.com/fritterhq/fritter-services/internal/annotation"
	annrepo "github.com/fritterhq/fritter-services/internal/annotation/repository"
	annhandler "github.com/fritterhq/fritter-services/internal/annotation/handler"
	annsvc "github.com/fritterhq/fritter-services/internal/annotation/service"
	"github.com/fritterhq/fritter-services/internal/config"
	"github.com/fritterhq/fritter-services/internal/database"
	freethandler "github.com/fritterhq/fritter-services/internal/freets/handler"
	freetrepo "github.com/fritterhq/fritter-services/internal/freets/repository"
	freetsvc "github.com/fritterhq/fritter-services/internal/freets/service"
	"github.com/fritterhq/fritter-services/internal/sessions"
	"github.com/fritterhq/fritter-services/internal/tokens"
	"github.com/fritterhq/fritter-services/internal/users"
	"github.com/fritterhq/fritter-services/pkg/logger"
	"github.com/fritterhq/fritter-services/pkg/metrics"
	"github.com/fritterhq/fritter-services/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Permissive CORS for dev/test; production should use a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Redis first: sessions, alerts and the distributed rate limiter use it.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// MongoDB with retry/backoff to tolerate startup races.
	var client *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		}
		defer func() { _ = client.Disconnect(ctx) }()
	} else {
		logger.Fatalf("MONGODB_URI is required")
	}
	db := client.Database(cfg.MongoDB.Database)

	// services
	userSvc := users.NewService(users.NewMongoUserRepository(db.Collection("users")))
	freetSvc := freetsvc.NewService(freetrepo.NewMongoRepo(db.Collection("freets")))

	annStore := annrepo.NewMongoStore(db.Collection("annotations"))
	likeEng := annsvc.NewEngine(annotation.KindLike, annStore)
	flagEng := annsvc.NewEngine(annotation.KindFlag, annStore)
	pinEng := annsvc.NewEngine(annotation.KindPin, annStore)

	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("using Redis for session storage")
	} else {
		sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection("sessions")))
	}
	alertStore := alerts.NewStore(redisClient, cfg.Alerts.TTL)

	verifier := tokens.NewVerifier(cfg)

	// routes
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := gin.H{
			"mongo": client != nil,
			"redis": redisClient != nil,
		}
		if client == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.NewAuthHandler(cfg, userSvc, sessionsSvc).Register(r.Group("/"))
	handlers.RegisterSwagger(r)
	handlers.RegisterAlertRoutes(r, alertStore, verifier)
	annhandler.New(likeEng, flagEng, pinEng, freetSvc, userSvc, alertStore).Register(r, verifier)
	freethandler.New(freetSvc, flagEng, userSvc).Register(r, verifier)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting fritter service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
