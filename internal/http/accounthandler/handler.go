package accounthandler

import (
	"errors"
	"net/http"

	"crickmate/internal/http/apierror"
	"crickmate/internal/services/account"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc account.IAccountService
}

func New(svc account.IAccountService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/signup", h.signup)
	r.POST("/login", h.login)
}

// @Summary		Create an account
// @Tags			Accounts
// @Param			body	body		CredentialsBody	true	"Credentials"
// @Success		200		{object}	SignupResponse
// @Failure		400		{object}	apierror.ErrorResponse
// @Failure		409		{object}	apierror.ErrorResponse
// @Router			/signup [post]
func (h *Handler) signup(ginCtx *gin.Context) {
	var body CredentialsBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		apierror.Abort(ginCtx, http.StatusBadRequest, err)
		return
	}

	dto, err := h.svc.Signup(ginCtx.Request.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, account.ErrUsernameTaken):
		apierror.Abort(ginCtx, http.StatusConflict, err)
		return
	case errors.Is(err, account.ErrInvalidPassword):
		apierror.Abort(ginCtx, http.StatusBadRequest, err)
		return
	case err != nil:
		apierror.Abort(ginCtx, http.StatusInternalServerError, err)
		return
	}
	ginCtx.JSON(http.StatusOK, SignupResponse{Status: "success", Username: dto.Username})
}

// @Summary		Log in
// @Description	Checks the password and returns the account id.
// @Tags			Accounts
// @Param			body	body		CredentialsBody	true	"Credentials"
// @Success		200		{object}	LoginResponse
// @Failure		401		{object}	apierror.ErrorResponse
// @Router			/login [post]
func (h *Handler) login(ginCtx *gin.Context) {
	var body CredentialsBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		apierror.Abort(ginCtx, http.StatusBadRequest, err)
		return
	}

	dto, err := h.svc.Login(ginCtx.Request.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		apierror.Abort(ginCtx, http.StatusUnauthorized, err)
		return
	case err != nil:
		apierror.Abort(ginCtx, http.StatusInternalServerError, err)
		return
	}
	ginCtx.JSON(http.StatusOK, LoginResponse{Status: "success", Username: dto.Username, UserID: dto.ID})
}
