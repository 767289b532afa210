package roomhandler

type CreateRoomBody struct {
	Username string `json:"username" binding:"required" example:"alice"`
} // @name CreateRoomRequest

type JoinRoomBody struct {
	Username string `json:"username" binding:"required" example:"bob"`
	RoomCode string `json:"roomCode" binding:"required" example:"ABC123"`
} // @name JoinRoomRequest

type RoomResponse struct {
	Status   string `json:"status"   example:"success"`
	RoomCode string `json:"roomCode" example:"ABC123"`
} // @name RoomResponse
