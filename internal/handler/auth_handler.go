package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"playmatch/lobbies/internal/auth"
	"playmatch/lobbies/internal/models"
	"playmatch/lobbies/internal/service"
)

// region --- DTOs ---

// CredentialsInput is the body of register and login requests.
type CredentialsInput struct {
	Username string `json:"username" binding:"required,max=255" example:"Flacko"`
	Password string `json:"password" binding:"required,min=1" example:"password123"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"Flacko"`
	Status   string `json:"status" example:"ONLINE"`
}

// SessionResponse is returned after register and login.
type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func newUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Status: string(u.Status)}
}

// endregion

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body CredentialsInput true "Registration Info"
// @Success      201  {object}  SessionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Token: token, User: newUserResponse(*user)})
}

// Login godoc
// @Summary      Log in
// @Description  Checks the credentials and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body CredentialsInput true "Login Info"
// @Success      200  {object}  SessionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Token: token, User: newUserResponse(*user)})
}

// Logout godoc
// @Summary      Log out
// @Description  Marks the authenticated user offline.
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), user.ID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
