package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"crickmate/internal/config"
	"crickmate/internal/database/db_client"
	"crickmate/internal/http/http_server"
	"crickmate/internal/redis/redis_client"
	"crickmate/internal/redis/watcher/roomwatcher"
	"crickmate/internal/roomsync"
	"crickmate/internal/services/account"
	"crickmate/internal/services/leaderboard"
	"crickmate/internal/services/room"
	"crickmate/internal/ws"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
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
	redisClient, err := redis_client.NewRedisClient(cfg)
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()
	Log.Debug("Redis client created successfully")

	// 4. Postgres db client + schema
	pgDb, err := db_client.Open(cfg)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	if err := db_client.Migrate(ctx, pgDb, cfg.IsDev()); err != nil {
		Log.Fatal("pg-migrate", zap.Error(err))
	}

	// 5. Relay registry, shared by the WS server and the room lifecycle jobs
	registry := ws.NewRegistry()

	// 6. Services
	accountService := account.NewAccountService(pgDb, bcrypt.DefaultCost)
	roomService := room.NewRoomService(redisClient, pgDb, accountService, registry,
		cfg.RoomCodeLength, cfg.RoomWaitingTTL)
	leaderboardService := leaderboard.NewLeaderboardService(redisClient, pgDb)

	// 7. Background: reservation-expiry watcher ➜ retire abandoned rooms
	go roomwatcher.Run(ctx, redisClient, roomService)

	// 8. Background: relay membership ➜ room status
	roomsync.Run(ctx, registry, roomService, cfg.RoomSyncInterval)

	// 9. WS server (room relay + leaderboard listeners)
	wsSrv := ws.NewWsServer(registry, redisClient, cfg.WsMaxMessageBytes)

	// 10. HTTP + WS server
	httpServer := http_server.NewHttpServer(cfg.HttpServerPort, wsSrv, pgDb, http_server.Services{
		Accounts:    accountService,
		Rooms:       roomService,
		Leaderboard: leaderboardService,
	}, cfg.CorsAllowOrigins)

	go func() {
		<-ctx.Done()
		_ = httpServer.Dispose()
	}()

	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
	Log.Info("server stopped")
}
