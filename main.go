package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"truekki/internal/auth"
	"truekki/internal/config"
	"truekki/internal/database/db_client"
	"truekki/internal/http/http_server"
	"truekki/internal/redis/redis_client"
	"truekki/internal/services/auction"
	"truekki/internal/services/chat"
	"truekki/internal/services/product"
	"truekki/internal/services/user"
	"truekki/internal/store"
	"truekki/internal/sweeper"
	"truekki/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	var err error
	var cfg *config.Config
	var redisClient *redis.Client

	// 1. Load configuration
	cfg, err = config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis
	redisClient, err = redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()
	Log.Debug("Redis client created successfully")

	// 4. Postgres db client
	pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	// 5. Record store and services
	st := store.New(pgDb)
	tokens := auth.NewTokens(cfg.JwtSecret, time.Duration(cfg.JwtTTLHours)*time.Hour)

	userService := user.NewUserService(st, tokens)
	productService := product.NewProductService(st)
	chatService := chat.NewChatService(st)
	auctionService := auction.NewAuctionService(st, redisClient, cfg.AuctionDurationHours)

	// 6. Background: auction expiry sweeper
	sweeper.Run(ctx, st, redisClient, time.Duration(cfg.SweepIntervalSeconds)*time.Second)

	// 7. WebSockets hub + Redis fan-out for the live bid feed
	hub := ws.NewHub()
	go ws.SubscribeBidEvents(ctx, redisClient, hub)
	feedSrv := ws.NewFeedServer(hub)

	// 8. HTTP server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort,
		userService, productService, chatService, auctionService, feedSrv)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
