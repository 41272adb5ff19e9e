package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/fritterhq/fritter-services/internal/annotation"
	annrepo "github.com/fritterhq/fritter-services/internal/annotation/repository"
	annsvc "github.com/fritterhq/fritter-services/internal/annotation/service"
	"github.com/fritterhq/fritter-services/internal/database"
	"github.com/fritterhq/fritter-services/internal/freets/handler"
	freetrepo "github.com/fritterhq/fritter-services/internal/freets/repository"
	freetsvc "github.com/fritterhq/fritter-services/internal/freets/service"
	"github.com/fritterhq/fritter-services/internal/config"
	"github.com/fritterhq/fritter-services/internal/tokens"
	"github.com/fritterhq/fritter-services/internal/users"
	"github.com/gin-gonic/gin"
)

// freetd is a standalone freet service for local development. It prefers a
// Mongo-backed repo when MONGODB_URI is set and falls back to memory.
func main() {
	port := os.Getenv("FREET_SERVICE_PORT")
	if port == "" {
		port = "3010"
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	var freetRepo freetrepo.Repository
	var userRepo users.UserRepository
	var annStore annrepo.Store
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		client, err := database.ConnectMongo(context.Background(), uri, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v) — using memory-backed repos", err)
		} else {
			db := client.Database(cfg.MongoDB.Database)
			freetRepo = freetrepo.NewMongoRepo(db.Collection("freets"))
			userRepo = users.NewMongoUserRepository(db.Collection("users"))
			annStore = annrepo.NewMongoStore(db.Collection("annotations"))
		}
	}
	if freetRepo == nil {
		freetRepo = freetrepo.NewMemoryRepo()
		userRepo = users.NewMemoryUserRepository()
		annStore = annrepo.NewMemoryStore()
	}

	svc := freetsvc.NewService(freetRepo)
	userSvc := users.NewService(userRepo)
	flagEng := annsvc.NewEngine(annotation.KindFlag, annStore)

	handler.New(svc, flagEng, userSvc).Register(r, tokens.NewVerifier(cfg))

	log.Printf("freetd listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
