package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
)

const sessionMaxAge = 7 * 24 * 60 * 60

type UserHandler struct {
	*Handler
	service port.Service
}

func NewUserHandler(h *Handler, service port.Service) (*UserHandler, error) {
	return &UserHandler{Handler: h, service: service}, nil
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser godoc
//
//	@Summary	Register a new customer account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		registerRequest	true	"Account data"
//	@Success	201		{object}	userResponse
//	@Router		/api/auth/register [post]
func (uh *UserHandler) RegisterUser(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		uh.handleValidationError(ctx, err)
		return
	}

	user, token, err := uh.service.RegisterUser(ctx, port.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		uh.handleError(ctx, err)
		return
	}

	uh.setSessionCookie(ctx, token)
	uh.handleSuccessWithStatus(ctx, newUserResponse(user), http.StatusCreated)
}

// LoginUser godoc
//
//	@Summary	Authenticate and open a session
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		loginRequest	true	"Credentials"
//	@Success	200		{object}	userResponse
//	@Router		/api/auth/login [post]
func (uh *UserHandler) LoginUser(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		uh.handleValidationError(ctx, err)
		return
	}

	user, token, err := uh.service.LoginUser(ctx, req.Username, req.Password)
	if err != nil {
		uh.handleError(ctx, err)
		return
	}

	uh.setSessionCookie(ctx, token)
	uh.handleSuccess(ctx, newUserResponse(user))
}

// LogoutUser clears the session cookie. Always succeeds.
func (uh *UserHandler) LogoutUser(ctx *gin.Context) {
	ctx.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	uh.handleSuccess(ctx, gin.H{"message": "logged out"})
}

// CurrentUser godoc
//
//	@Summary	Return the authenticated account
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	userResponse
//	@Router		/api/user [get]
func (uh *UserHandler) CurrentUser(ctx *gin.Context) {
	payload := getAuthPayload(ctx)
	if payload == nil {
		uh.handleError(ctx, domain.ErrEmptySession)
		return
	}

	user, err := uh.service.GetUser(ctx, payload.UserID)
	if err != nil {
		uh.handleError(ctx, err)
		return
	}

	uh.handleSuccess(ctx, newUserResponse(user))
}

func (uh *UserHandler) setSessionCookie(ctx *gin.Context, token string) {
	ctx.SetCookie(sessionCookieName, token, sessionMaxAge, "/", "", false, true)
}
