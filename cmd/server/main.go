package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/cache"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/config"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/gateway"
	httpapi "github.com/PranavReddyy/stallsatfest-sub000/internal/http"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/notifier"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/repository"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	repo := repository.NewMongoRepository(mongoDB)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	store := cache.NewRedisStore(redisClient)
	changeNotifier := notifier.NewRedisNotifier(redisClient)

	hub := gateway.NewHub(redisClient)
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	hub.Run(hubCtx)

	stockService := service.NewStockService(repo, store, changeNotifier)
	menuService := service.NewMenuService(repo, store, changeNotifier)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpapi.NewRouter(stockService, menuService, hub),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Availability service listening on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down availability service...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	stopHub()
	mongoDB.Client().Disconnect(ctx)
	log.Println("Availability service stopped")
}
