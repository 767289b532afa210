package roomhandler

import (
	"errors"
	"net/http"

	"crickmate/internal/http/apierror"
	"crickmate/internal/services/account"
	"crickmate/internal/services/room"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc room.IRoomService
}

func New(svc room.IRoomService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/create-room", h.create)
	r.POST("/join-room", h.join)
}

// @Summary		Create a room
// @Description	Allocates a fresh room code hosted by the given user.
// @Tags			Rooms
// @Param			body	body		CreateRoomBody	true	"Host"
// @Success		200		{object}	RoomResponse
// @Failure		404		{object}	apierror.ErrorResponse
// @Failure		503		{object}	apierror.ErrorResponse
// @Router			/create-room [post]
func (h *Handler) create(ginCtx *gin.Context) {
	var body CreateRoomBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		apierror.Abort(ginCtx, http.StatusBadRequest, err)
		return
	}

	code, err := h.svc.CreateRoom(ginCtx.Request.Context(), body.Username)
	if err != nil {
		apierror.Abort(ginCtx, statusFor(err), err)
		return
	}
	ginCtx.JSON(http.StatusOK, RoomResponse{Status: "success", RoomCode: code})
}

// @Summary		Join a room
// @Tags			Rooms
// @Param			body	body		JoinRoomBody	true	"Guest and room code"
// @Success		200		{object}	RoomResponse
// @Failure		404		{object}	apierror.ErrorResponse
// @Router			/join-room [post]
func (h *Handler) join(ginCtx *gin.Context) {
	var body JoinRoomBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		apierror.Abort(ginCtx, http.StatusBadRequest, err)
		return
	}

	if err := h.svc.JoinRoom(ginCtx.Request.Context(), body.Username, body.RoomCode); err != nil {
		apierror.Abort(ginCtx, statusFor(err), err)
		return
	}
	ginCtx.JSON(http.StatusOK, RoomResponse{Status: "success", RoomCode: body.RoomCode})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, account.ErrUserNotFound), errors.Is(err, room.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrRoomCodeExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
