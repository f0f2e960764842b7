package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"playmatch/lobbies/internal/auth"
	"playmatch/lobbies/internal/hub"
	"playmatch/lobbies/internal/models"
	"playmatch/lobbies/internal/service"
)

// region --- DTOs ---

// CreateLobbyInput is the body of a lobby creation request.
type CreateLobbyInput struct {
	LobbyName       string `json:"lobbyName" binding:"required,max=255" example:"BadBunny"`
	NumberOfPlayers int    `json:"numberOfPlayers" binding:"required" example:"5"`
	VoiceChat       bool   `json:"voiceChat"`
	IsPrivate       bool   `json:"isPrivate"`
}

// UpdateLobbyInput is the body of a lobby update. Omitted fields stay unchanged.
type UpdateLobbyInput struct {
	NumberOfPlayers *int   `json:"numberOfPlayers" example:"4"`
	NumberOfBots    *int   `json:"numberOfBots" example:"1"`
	VoiceChat       *bool  `json:"voiceChat"`
	UsersToKick     []uint `json:"usersToKick"`
}

// JoinLobbyInput is the optional body of a join request.
type JoinLobbyInput struct {
	PrivateKey string `json:"privateKey"`
}

// LobbyResponse is the public view of a lobby.
type LobbyResponse struct {
	ID              uint           `json:"id"`
	LobbyName       string         `json:"lobbyName"`
	NumberOfPlayers int            `json:"numberOfPlayers"`
	NumberOfBots    *int           `json:"numberOfBots,omitempty"`
	VoiceChat       bool           `json:"voiceChat"`
	UserID          uint           `json:"userId"`
	IsPrivate       bool           `json:"isPrivate"`
	PrivateKey      *string        `json:"privateKey,omitempty"`
	LobbyScore      *int64         `json:"lobbyScore,omitempty"`
	OpenSeats       int            `json:"openSeats"`
	Members         []UserResponse `json:"members"`
}

// newLobbyResponse builds the response for viewerID. The private key is only
// shown to members.
func newLobbyResponse(lobby *models.Lobby, members []models.User, viewerID uint) LobbyResponse {
	memberResponses := make([]UserResponse, 0, len(members))
	for _, m := range members {
		memberResponses = append(memberResponses, newUserResponse(m))
	}

	resp := LobbyResponse{
		ID:              lobby.ID,
		LobbyName:       lobby.Name,
		NumberOfPlayers: lobby.NumberOfPlayers,
		NumberOfBots:    lobby.NumberOfBots,
		VoiceChat:       lobby.VoiceChat,
		UserID:          lobby.LeaderID,
		IsPrivate:       lobby.IsPrivate,
		LobbyScore:      lobby.LobbyScore,
		OpenSeats:       lobby.OpenSeats(),
		Members:         memberResponses,
	}
	if viewerID != 0 && lobby.HasMember(viewerID) {
		resp.PrivateKey = lobby.PrivateKey
	}
	return resp
}

// endregion

// LobbyHandler serves the /lobbies endpoints.
type LobbyHandler struct {
	lobbies *service.LobbyService
	hub     *hub.Hub
}

// NewLobbyHandler creates a LobbyHandler.
func NewLobbyHandler(lobbies *service.LobbyService, h *hub.Hub) *LobbyHandler {
	return &LobbyHandler{lobbies: lobbies, hub: h}
}

// CreateLobby godoc
// @Summary      Create a new lobby
// @Description  Creates a new lobby, making the creator its leader.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CreateLobbyInput true "Lobby Info"
// @Success      201  {object}  LobbyResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Too few players"
// @Router       /lobbies [post]
func (h *LobbyHandler) CreateLobby(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var input CreateLobbyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	lobby, err := h.lobbies.CreateLobby(c.Request.Context(), &models.Lobby{
		Name:            input.LobbyName,
		NumberOfPlayers: input.NumberOfPlayers,
		VoiceChat:       input.VoiceChat,
		IsPrivate:       input.IsPrivate,
		LeaderID:        user.ID,
		LeaderToken:     user.SessionToken(),
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.respondWithLobby(c, http.StatusCreated, lobby, user.ID)
}

// ListLobbies godoc
// @Summary      List public lobbies
// @Description  Gets a paginated list of public lobbies, newest first.
// @Tags         lobbies
// @Produce      json
// @Param        page    query int false "Page number" default(1)
// @Param        limit   query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[LobbyResponse]
// @Router       /lobbies [get]
func (h *LobbyHandler) ListLobbies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	lobbies, total, err := h.lobbies.ListLobbies(c.Request.Context(), page, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	viewerID := viewer(c)
	data := make([]LobbyResponse, 0, len(lobbies))
	for i := range lobbies {
		members, err := h.lobbies.Members(c.Request.Context(), &lobbies[i])
		if err != nil {
			HandleServiceError(c, err)
			return
		}
		data = append(data, newLobbyResponse(&lobbies[i], members, viewerID))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(data, total, page, limit))
}

// GetLobby godoc
// @Summary      Get a lobby by ID
// @Description  Gets full details for a single lobby. The private key is only shown to members.
// @Tags         lobbies
// @Produce      json
// @Param        id path int true "Lobby ID"
// @Success      200 {object} LobbyResponse
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id} [get]
func (h *LobbyHandler) GetLobby(c *gin.Context) {
	lobby, ok := h.loadLobby(c)
	if !ok {
		return
	}
	h.respondWithLobby(c, http.StatusOK, lobby, viewer(c))
}

// UpdateLobby godoc
// @Summary      Update a lobby (leader only)
// @Description  Changes player and bot counts, voice chat and kicks members. The leader cannot be kicked.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Lobby ID"
// @Param        input body      UpdateLobbyInput true  "Changes"
// @Success      200   {object}  LobbyResponse
// @Failure      401   {object}  ErrorResponse "Only the leader can update the lobby"
// @Failure      404   {object}  ErrorResponse "Lobby not found"
// @Failure      409   {object}  ErrorResponse "Invalid player or bot count, or concurrent update"
// @Router       /lobbies/{id} [put]
func (h *LobbyHandler) UpdateLobby(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var input UpdateLobbyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	lobby, ok := h.loadLobby(c)
	if !ok {
		return
	}

	updated, err := h.lobbies.UpdateLobby(c.Request.Context(), lobby, service.UpdateRequest{
		Token:           user.SessionToken(),
		NumberOfPlayers: input.NumberOfPlayers,
		NumberOfBots:    input.NumberOfBots,
		VoiceChat:       input.VoiceChat,
		UsersToKick:     input.UsersToKick,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.respondWithLobby(c, http.StatusOK, updated, user.ID)
}

// DeleteLobby godoc
// @Summary      Delete a lobby (leader only)
// @Tags         lobbies
// @Security     BearerAuth
// @Param        id path int true "Lobby ID"
// @Success      204
// @Failure      401 {object} ErrorResponse "Only the leader can delete the lobby"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id} [delete]
func (h *LobbyHandler) DeleteLobby(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}
	lobby, ok := h.loadLobby(c)
	if !ok {
		return
	}

	if err := h.lobbies.DeleteLobby(c.Request.Context(), lobby, user.SessionToken()); err != nil {
		HandleServiceError(c, err)
		return
	}
	h.hub.CloseLobby(lobby.ID)
	c.Status(http.StatusNoContent)
}

// JoinLobby godoc
// @Summary      Join a lobby
// @Description  Joins a lobby with an open seat. Private lobbies need their key.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int            true  "Lobby ID"
// @Param        input body JoinLobbyInput false "Private key"
// @Success      200 {object} LobbyResponse
// @Failure      403 {object} ErrorResponse "Invalid private key"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Failure      409 {object} ErrorResponse "Lobby is full or user is already a member"
// @Router       /lobbies/{id}/join [post]
func (h *LobbyHandler) JoinLobby(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}
	lobbyID, ok := parseID(c)
	if !ok {
		return
	}

	var input JoinLobbyInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	lobby, err := h.lobbies.JoinLobby(c.Request.Context(), lobbyID, user.ID, input.PrivateKey)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.respondWithLobby(c, http.StatusOK, lobby, user.ID)
}

// LeaveLobby godoc
// @Summary      Leave a lobby
// @Description  Leaves the lobby. A leaving leader hands over to the earliest member; the last member leaving deletes the lobby.
// @Tags         lobbies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lobby ID"
// @Success      200 {object} LobbyResponse
// @Success      204 "Lobby deleted"
// @Failure      404 {object} ErrorResponse "Lobby not found or user is not a member"
// @Failure      409 {object} ErrorResponse "No remaining member can take over as leader"
// @Router       /lobbies/{id}/leave [post]
func (h *LobbyHandler) LeaveLobby(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}
	lobbyID, ok := parseID(c)
	if !ok {
		return
	}

	lobby, err := h.lobbies.LeaveLobby(c.Request.Context(), lobbyID, user.ID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if lobby == nil {
		h.hub.CloseLobby(lobbyID)
		c.Status(http.StatusNoContent)
		return
	}
	h.respondWithLobby(c, http.StatusOK, lobby, user.ID)
}

// Events godoc
// @Summary      Stream lobby events
// @Description  Server-sent events for a lobby the caller is a member of.
// @Tags         lobbies
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id path int true "Lobby ID"
// @Success      200 {string} string "event stream"
// @Failure      404 {object} ErrorResponse "Lobby not found or user is not a member"
// @Router       /lobbies/{id}/events [get]
func (h *LobbyHandler) Events(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}
	lobby, ok := h.loadLobby(c)
	if !ok {
		return
	}
	if !lobby.HasMember(user.ID) {
		HandleServiceError(c, service.ErrNotMember)
		return
	}

	client := make(hub.Client, 16)
	h.hub.Subscribe(lobby.ID, user.ID, client)
	defer h.hub.Unsubscribe(lobby.ID, client)

	logCtx := logrus.WithFields(logrus.Fields{"lobby_id": lobby.ID, "user_id": user.ID})
	logCtx.Debug("Event stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-client:
			if !open {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
	logCtx.Debug("Event stream closed")
}

func (h *LobbyHandler) loadLobby(c *gin.Context) (*models.Lobby, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	lobby, err := h.lobbies.GetLobby(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return nil, false
	}
	return lobby, true
}

func (h *LobbyHandler) respondWithLobby(c *gin.Context, status int, lobby *models.Lobby, viewerID uint) {
	members, err := h.lobbies.Members(c.Request.Context(), lobby)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(status, newLobbyResponse(lobby, members, viewerID))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid lobby id"})
		return 0, false
	}
	return uint(id), true
}

func viewer(c *gin.Context) uint {
	if user, ok := auth.CurrentUser(c); ok {
		return user.ID
	}
	return 0
}
