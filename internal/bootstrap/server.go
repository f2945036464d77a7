package bootstrap

import (
	"time"

	"betting-service/config"
	httpHandler "betting-service/internal/api/http/handler"
	wsHandler "betting-service/internal/api/ws/handler"
	"betting-service/internal/handler"
	"betting-service/internal/middleware"
	"betting-service/internal/server"

	"github.com/gofiber/fiber/v2"
)

func SetupServer(config config.Config, httpHandlers map[string]interface{}, wsHandlers map[string]interface{}) *fiber.App {
	serverConfig := server.Config{
		Port:         config.Server.Port,
		AllowOrigins: config.Server.CORSOrigins,
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	app := server.NewFiberApp(serverConfig)
	app.Use(middleware.NewRateLimiter(config.RateLimit).Middleware())

	listRoomsHandler := httpHandlers["list-rooms"].(*httpHandler.ListRoomsHandler)
	roomCountHandler := httpHandlers["room-count"].(*httpHandler.RoomCountHandler)
	getRoomHandler := httpHandlers["get-room"].(*httpHandler.GetRoomHandler)
	playerStakeHandler := httpHandlers["player-stake"].(*httpHandler.PlayerStakeHandler)
	winningChanceHandler := httpHandlers["winning-chance"].(*httpHandler.WinningChanceHandler)
	userRoomsHandler := httpHandlers["user-rooms"].(*httpHandler.UserRoomsHandler)
	winningsHandler := httpHandlers["user-winnings"].(*httpHandler.WinningsHandler)
	userBalanceHandler := httpHandlers["user-balance"].(*httpHandler.UserBalanceHandler)
	ownerHandler := httpHandlers["admin-owner"].(*httpHandler.OwnerHandler)
	pausedHandler := httpHandlers["admin-paused"].(*httpHandler.PausedHandler)

	app.Get("/rooms", handler.HandleWithFiber[httpHandler.ListRoomsRequest, httpHandler.ListRoomsResponse](listRoomsHandler))
	app.Get("/rooms/count", handler.HandleWithFiber[httpHandler.RoomCountRequest, httpHandler.RoomCountResponse](roomCountHandler))
	app.Get("/rooms/:room_id", handler.HandleWithFiber[httpHandler.GetRoomRequest, httpHandler.GetRoomResponse](getRoomHandler))
	app.Get("/rooms/:room_id/stakes/:address", handler.HandleWithFiber[httpHandler.PlayerStakeRequest, httpHandler.PlayerStakeResponse](playerStakeHandler))
	app.Get("/rooms/:room_id/chance", handler.HandleWithFiber[httpHandler.WinningChanceRequest, httpHandler.WinningChanceResponse](winningChanceHandler))

	users := app.Group("/users/:address")
	users.Get("/rooms", handler.HandleWithFiber[httpHandler.UserRoomsRequest, httpHandler.UserRoomsResponse](userRoomsHandler))
	users.Get("/winnings", handler.HandleWithFiber[httpHandler.WinningsRequest, httpHandler.WinningsResponse](winningsHandler))
	users.Get("/balance", handler.HandleWithFiber[httpHandler.UserBalanceRequest, httpHandler.UserBalanceResponse](userBalanceHandler))

	admin := app.Group("/admin")
	admin.Get("/owner", handler.HandleBasic[httpHandler.OwnerRequest, httpHandler.OwnerResponse](ownerHandler))
	admin.Get("/paused", handler.HandleBasic[httpHandler.PausedRequest, httpHandler.PausedResponse](pausedHandler))

	if h, ok := wsHandlers["room-feed"].(*wsHandler.RoomFeedHandler); ok {
		wsRoute := app.Group("/ws")
		wsRoute.Get("/rooms/:room_id", handler.HandleWithFiberWS[wsHandler.RoomFeedRequest](h))
	}

	return app
}
