package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"chatcall/internal/config"
	"chatcall/internal/database"
	"chatcall/internal/handlers"
	ws "chatcall/internal/websocket"
	"chatcall/pkg/auth"
)

type Server struct {
	Router *gin.Engine
	Config *config.Config
	DB     *database.Database
	Redis  *redis.Client
	Hub    *ws.Hub
}

func NewServer() *Server {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	hub := ws.NewHub()
	dispatcher := handlers.NewEventDispatcher(dbConn, hub, cfg.HistoryLimit)

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	dirH := handlers.NewDirectoryHandler(dbConn)
	wsH := handlers.NewWebSocketHandler(hub, dispatcher)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, dirH, wsH)

	return &Server{
		Router: router,
		Config: cfg,
		DB:     dbConn,
		Redis:  rdb,
		Hub:    hub,
	}
}

// Run запускает HTTP-сервер и блокируется до SIGINT/SIGTERM,
// после чего дожидается активных запросов и гасит hub
func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.Port,
		Handler: s.Router,
	}

	go func() {
		log.Printf("Server starting on port %s", s.Config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server run error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	s.Hub.Stop()
	if err := s.Redis.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
}
