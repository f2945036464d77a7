package bootstrap

import (
	httpHandler "betting-service/internal/api/http/handler"
	httpUsecase "betting-service/internal/api/http/usecase"
	wsHandler "betting-service/internal/api/ws/handler"
)

func SetupHTTPHandlers(rooms httpUsecase.RoomService, contract httpUsecase.ContractInfo) map[string]interface{} {
	contractInfo := httpUsecase.NewContractInfoUseCase(contract)

	return map[string]interface{}{
		"list-rooms":     httpHandler.NewListRoomsHandler(httpUsecase.NewListRoomsUseCase(rooms)),
		"room-count":     httpHandler.NewRoomCountHandler(httpUsecase.NewRoomCountUseCase(rooms)),
		"get-room":       httpHandler.NewGetRoomHandler(httpUsecase.NewGetRoomUseCase(rooms)),
		"player-stake":   httpHandler.NewPlayerStakeHandler(httpUsecase.NewPlayerStakeUseCase(rooms)),
		"winning-chance": httpHandler.NewWinningChanceHandler(httpUsecase.NewWinningChanceUseCase(rooms)),
		"user-rooms":     httpHandler.NewUserRoomsHandler(httpUsecase.NewUserRoomsUseCase(rooms)),
		"user-winnings":  httpHandler.NewWinningsHandler(httpUsecase.NewWinningsUseCase(rooms)),
		"user-balance":   httpHandler.NewUserBalanceHandler(httpUsecase.NewUserBalanceUseCase(rooms)),
		"admin-owner":    httpHandler.NewOwnerHandler(contractInfo),
		"admin-paused":   httpHandler.NewPausedHandler(contractInfo),
	}
}

// SetupWSHandlers returns no handlers when redis is off; the feed has nothing
// to relay without it.
func SetupWSHandlers(wsHub Hub, rooms wsHandler.RoomReader) map[string]interface{} {
	if wsHub == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{
		"room-feed": wsHandler.NewRoomFeedHandler(wsHub, rooms),
	}
}
