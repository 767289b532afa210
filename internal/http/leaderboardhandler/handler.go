package leaderboardhandler

import (
	"net/http"

	"crickmate/internal/http/apierror"
	"crickmate/internal/services/leaderboard"

	"github.com/gin-gonic/gin"
)

type StandingsResponse struct {
	Status string                    `json:"status" example:"success"`
	Data   []leaderboard.StandingDTO `json:"data"`
} // @name StandingsResponse

type BroadcastResponse struct {
	Status    string `json:"status"    example:"broadcasted"`
	Receivers int64  `json:"receivers" example:"1"`
} // @name BroadcastResponse

type Handler struct {
	svc leaderboard.ILeaderboardService
}

func New(svc leaderboard.ILeaderboardService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/leaderboard", h.list)
	r.POST("/broadcast", h.broadcast)
}

// @Summary		Leaderboard
// @Description	Standings ordered by rating, best first.
// @Tags			Leaderboard
// @Success		200	{object}	StandingsResponse
// @Failure		500	{object}	apierror.ErrorResponse
// @Router			/leaderboard [get]
func (h *Handler) list(c *gin.Context) {
	out, err := h.svc.Standings(c.Request.Context(), leaderboard.ByRating)
	if err != nil {
		apierror.Abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, StandingsResponse{Status: "success", Data: out})
}

// @Summary		Push standings to listeners
// @Description	Sends the current standings, ordered by wins, to every /leaderboard/ws listener.
// @Tags			Leaderboard
// @Success		200	{object}	BroadcastResponse
// @Failure		500	{object}	apierror.ErrorResponse
// @Router			/broadcast [post]
func (h *Handler) broadcast(c *gin.Context) {
	n, err := h.svc.Publish(c.Request.Context())
	if err != nil {
		apierror.Abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, BroadcastResponse{Status: "broadcasted", Receivers: n})
}
