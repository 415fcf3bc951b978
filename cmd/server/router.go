package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"chatcall/internal/handlers"
	"chatcall/internal/middleware"
	"chatcall/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	dirH *handlers.DirectoryHandler,
	wsH *handlers.WebSocketHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
	}

	// API endpoints
	api := r.Group("/api", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.GET("/rooms", dirH.ListRooms)
		api.GET("/users", dirH.ListUsers)
	}

	// WebSocket: токен проверяется до апгрейда
	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.HandleWebSocket)
}
