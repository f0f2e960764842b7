package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	nanoid "github.com/jaevor/go-nanoid"
	"github.com/sirupsen/logrus"

	"playmatch/lobbies/internal/hub"
	"playmatch/lobbies/internal/models"
	"playmatch/lobbies/internal/repository"
)

const (
	// DefaultMinPlayers is used when LobbyConfig.MinPlayers is not set.
	DefaultMinPlayers = 3
	// DefaultPrivateKeyLength is used when LobbyConfig.PrivateKeyLength is not set.
	DefaultPrivateKeyLength = 8

	// privateKeyAlphabet leaves out characters that are easy to confuse when a key is read aloud.
	privateKeyAlphabet  = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"
	maxPrivateKeyTries  = 10
	maxListLimit        = 100
	defaultListPageSize = 10
)

// Broadcaster delivers lobby events to whoever watches the lobby.
// Disconnect ends the streams of a user who is no longer a member.
type Broadcaster interface {
	Broadcast(lobbyID uint, event hub.Event)
	Disconnect(lobbyID, userID uint)
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(uint, hub.Event) {}
func (noopBroadcaster) Disconnect(uint, uint)     {}

// LobbyConfig holds the tunable lobby rules.
type LobbyConfig struct {
	MinPlayers       int
	PrivateKeyLength int
}

// UpdateRequest carries a leader's changes to a lobby. Nil fields are left unchanged.
type UpdateRequest struct {
	Token           string
	NumberOfPlayers *int
	NumberOfBots    *int
	VoiceChat       *bool
	UsersToKick     []uint
}

// LobbyService implements lobby lifecycle and membership rules.
type LobbyService struct {
	lobbyRepo repository.LobbyRepository
	userRepo  repository.UserRepository
	events    Broadcaster
	cfg       LobbyConfig
	newKey    func() string
}

// NewLobbyService creates a LobbyService. A nil broadcaster disables events.
func NewLobbyService(lobbyRepo repository.LobbyRepository, userRepo repository.UserRepository, events Broadcaster, cfg LobbyConfig) *LobbyService {
	if lobbyRepo == nil {
		panic("LobbyRepository cannot be nil for LobbyService")
	}
	if userRepo == nil {
		panic("UserRepository cannot be nil for LobbyService")
	}
	if events == nil {
		events = noopBroadcaster{}
	}
	if cfg.MinPlayers <= 0 {
		cfg.MinPlayers = DefaultMinPlayers
	}
	if cfg.PrivateKeyLength <= 0 {
		cfg.PrivateKeyLength = DefaultPrivateKeyLength
	}

	newKey, err := nanoid.CustomASCII(privateKeyAlphabet, cfg.PrivateKeyLength)
	if err != nil {
		panic("invalid private key generator settings: " + err.Error())
	}

	return &LobbyService{
		lobbyRepo: lobbyRepo,
		userRepo:  userRepo,
		events:    events,
		cfg:       cfg,
		newKey:    newKey,
	}
}

// MinPlayers returns the smallest player count a lobby may be configured with.
func (s *LobbyService) MinPlayers() int {
	return s.cfg.MinPlayers
}

// CreateLobby persists a new lobby led by candidate.LeaderID.
func (s *LobbyService) CreateLobby(ctx context.Context, candidate *models.Lobby) (*models.Lobby, error) {
	if candidate == nil || strings.TrimSpace(candidate.Name) == "" || candidate.LeaderID == 0 {
		return nil, ErrInvalidInput
	}
	logCtx := logrus.WithFields(logrus.Fields{"leader_id": candidate.LeaderID, "private": candidate.IsPrivate})

	if candidate.NumberOfPlayers < s.cfg.MinPlayers {
		logCtx.WithField("number_of_players", candidate.NumberOfPlayers).Warn("Rejected lobby with too few players")
		return nil, ErrInvalidPlayerCount
	}

	candidate.Name = strings.TrimSpace(candidate.Name)
	candidate.NumberOfBots = nil
	candidate.PrivateKey = nil
	if candidate.IsPrivate {
		key, err := s.generateUniquePrivateKey(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to generate unique private key")
			return nil, ErrInternalServer
		}
		candidate.PrivateKey = &key
	}
	candidate.AddMember(candidate.LeaderID)

	if err := s.lobbyRepo.Save(ctx, candidate); err != nil {
		logCtx.WithError(err).Error("Failed to save new lobby")
		return nil, ErrInternalServer
	}

	logCtx.WithField("lobby_id", candidate.ID).Info("Lobby created successfully")
	return candidate, nil
}

// GetLobby loads a lobby by id.
func (s *LobbyService) GetLobby(ctx context.Context, id uint) (*models.Lobby, error) {
	lobby, err := s.lobbyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLobbyNotFound
		}
		logrus.WithError(err).WithField("lobby_id", id).Error("Failed to load lobby")
		return nil, ErrInternalServer
	}
	return lobby, nil
}

// ListLobbies returns a page of public lobbies, newest first.
func (s *LobbyService) ListLobbies(ctx context.Context, page, limit int) ([]models.Lobby, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultListPageSize
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	lobbies, total, err := s.lobbyRepo.List(ctx, repository.ListOptions{Page: page, Limit: limit})
	if err != nil {
		logrus.WithError(err).Error("Failed to list lobbies")
		return nil, 0, ErrInternalServer
	}
	return lobbies, total, nil
}

// UpdateLobby applies req to existing on behalf of the lobby leader.
// Nothing is changed unless every check passes; existing itself is never mutated.
func (s *LobbyService) UpdateLobby(ctx context.Context, existing *models.Lobby, req UpdateRequest) (*models.Lobby, error) {
	if existing == nil {
		return nil, ErrLobbyNotFound
	}
	logCtx := logrus.WithField("lobby_id", existing.ID)

	if !leaderToken(existing, req.Token) {
		logCtx.Warn("Rejected lobby update with foreign token")
		return nil, ErrUnauthorized
	}

	kicked := kickTargets(existing, req.UsersToKick)
	if err := s.validatePlayerConfig(existing, req, len(existing.Members)-len(kicked)); err != nil {
		logCtx.WithError(err).Warn("Rejected lobby update")
		return nil, err
	}

	updated := cloneLobby(existing)
	if req.NumberOfPlayers != nil {
		updated.NumberOfPlayers = *req.NumberOfPlayers
	}
	if req.NumberOfBots != nil {
		bots := *req.NumberOfBots
		updated.NumberOfBots = &bots
	}
	if req.VoiceChat != nil {
		updated.VoiceChat = *req.VoiceChat
	}
	for _, userID := range kicked {
		updated.RemoveMember(userID)
	}

	if err := s.save(ctx, updated); err != nil {
		logCtx.WithError(err).Warn("Failed to save lobby update")
		return nil, err
	}

	for _, userID := range kicked {
		s.events.Broadcast(updated.ID, hub.Event{Type: hub.EventMemberKicked, Payload: memberPayload(updated.ID, userID)})
		s.events.Disconnect(updated.ID, userID)
	}
	s.events.Broadcast(updated.ID, hub.Event{Type: hub.EventLobbyUpdated, Payload: lobbyPayload(updated)})

	logCtx.WithFields(logrus.Fields{"kicked": len(kicked), "version": updated.Version}).Info("Lobby updated successfully")
	return updated, nil
}

// JoinLobby adds userID to the lobby. Private lobbies require the matching key.
func (s *LobbyService) JoinLobby(ctx context.Context, lobbyID, userID uint, privateKey string) (*models.Lobby, error) {
	lobby, err := s.GetLobby(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	logCtx := logrus.WithFields(logrus.Fields{"lobby_id": lobbyID, "user_id": userID})

	if lobby.HasMember(userID) {
		return nil, ErrAlreadyMember
	}
	if lobby.IsPrivate && !matchesPrivateKey(lobby, privateKey) {
		logCtx.Warn("Rejected join with invalid private key")
		return nil, ErrInvalidPrivateKey
	}
	if lobby.OpenSeats() == 0 {
		return nil, ErrLobbyFull
	}

	lobby.AddMember(userID)
	if err := s.save(ctx, lobby); err != nil {
		logCtx.WithError(err).Warn("Failed to save lobby join")
		return nil, err
	}

	s.events.Broadcast(lobby.ID, hub.Event{Type: hub.EventMemberJoined, Payload: memberPayload(lobby.ID, userID)})
	logCtx.Info("User joined lobby")
	return lobby, nil
}

// LeaveLobby removes userID from the lobby. A leaving leader hands the lobby to
// the earliest-joined remaining member; the last member leaving deletes it, in
// which case the returned lobby is nil.
func (s *LobbyService) LeaveLobby(ctx context.Context, lobbyID, userID uint) (*models.Lobby, error) {
	lobby, err := s.GetLobby(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	logCtx := logrus.WithFields(logrus.Fields{"lobby_id": lobbyID, "user_id": userID})

	if !lobby.RemoveMember(userID) {
		return nil, ErrNotMember
	}

	if len(lobby.Members) == 0 {
		if err := s.lobbyRepo.Delete(ctx, lobby.ID); err != nil {
			return nil, s.mapWriteError(err, lobby.ID)
		}
		s.events.Broadcast(lobby.ID, hub.Event{Type: hub.EventMemberLeft, Payload: memberPayload(lobby.ID, userID)})
		s.events.Broadcast(lobby.ID, hub.Event{Type: hub.EventLobbyDeleted, Payload: lobbyPayload(lobby)})
		logCtx.Info("Last member left, lobby deleted")
		return nil, nil
	}

	leaderChanged := false
	if lobby.IsLeader(userID) {
		successor, err := s.nextLeader(ctx, lobby)
		if errors.Is(err, ErrNoEligibleLeader) {
			logCtx.Warn("Rejected leader leave, no member can take over")
			return nil, err
		}
		if err != nil {
			logCtx.WithError(err).Error("Failed to load new lobby leader")
			return nil, ErrInternalServer
		}
		lobby.LeaderID = successor.ID
		lobby.LeaderToken = successor.SessionToken()
		leaderChanged = true
	}

	if err := s.save(ctx, lobby); err != nil {
		logCtx.WithError(err).Warn("Failed to save lobby leave")
		return nil, err
	}

	s.events.Broadcast(lobby.ID, hub.Event{Type: hub.EventMemberLeft, Payload: memberPayload(lobby.ID, userID)})
	s.events.Disconnect(lobby.ID, userID)
	if leaderChanged {
		s.events.Broadcast(lobby.ID, hub.Event{Type: hub.EventLeaderChanged, Payload: memberPayload(lobby.ID, lobby.LeaderID)})
		logCtx.WithField("new_leader_id", lobby.LeaderID).Info("Lobby leadership transferred")
	}
	logCtx.Info("User left lobby")
	return lobby, nil
}

// DeleteLobby removes the lobby. Only the leader's token may do so.
func (s *LobbyService) DeleteLobby(ctx context.Context, lobby *models.Lobby, token string) error {
	if lobby == nil {
		return ErrLobbyNotFound
	}
	logCtx := logrus.WithField("lobby_id", lobby.ID)

	if !leaderToken(lobby, token) {
		logCtx.Warn("Rejected lobby deletion with foreign token")
		return ErrUnauthorized
	}
	if err := s.lobbyRepo.Delete(ctx, lobby.ID); err != nil {
		return s.mapWriteError(err, lobby.ID)
	}

	s.events.Broadcast(lobby.ID, hub.Event{Type: hub.EventLobbyDeleted, Payload: lobbyPayload(lobby)})
	logCtx.Info("Lobby deleted")
	return nil
}

// Members resolves the lobby's member ids to user records, in join order.
// Users that no longer exist are skipped.
func (s *LobbyService) Members(ctx context.Context, lobby *models.Lobby) ([]models.User, error) {
	if lobby == nil {
		return nil, ErrLobbyNotFound
	}
	users, err := s.userRepo.FindByIDs(ctx, lobby.MemberIDs())
	if err != nil {
		logrus.WithError(err).WithField("lobby_id", lobby.ID).Error("Failed to load lobby members")
		return nil, ErrInternalServer
	}

	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	ordered := make([]models.User, 0, len(users))
	for _, id := range lobby.MemberIDs() {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}

// validatePlayerConfig checks the requested seat configuration against the
// members that remain after kicks.
func (s *LobbyService) validatePlayerConfig(existing *models.Lobby, req UpdateRequest, remaining int) error {
	if req.NumberOfPlayers == nil {
		// A bot count is sized against the requested seats; without them there are none.
		if req.NumberOfBots != nil {
			return ErrInvalidPlayerCount
		}
		return nil
	}

	players := *req.NumberOfPlayers
	if players < s.cfg.MinPlayers || players < remaining {
		return ErrInvalidPlayerCount
	}
	if req.NumberOfBots != nil {
		if bots := *req.NumberOfBots; bots < 0 || bots > players {
			return ErrInvalidBotCount
		}
	}
	return nil
}

// nextLeader picks the earliest-joined member holding a session token, since
// the leader token is what authorizes updates.
func (s *LobbyService) nextLeader(ctx context.Context, lobby *models.Lobby) (*models.User, error) {
	users, err := s.userRepo.FindByIDs(ctx, lobby.MemberIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for _, m := range lobby.Members {
		if u, ok := byID[m.UserID]; ok && u.SessionToken() != "" {
			return u, nil
		}
	}
	return nil, ErrNoEligibleLeader
}

func (s *LobbyService) save(ctx context.Context, lobby *models.Lobby) error {
	if err := s.lobbyRepo.Save(ctx, lobby); err != nil {
		return s.mapWriteError(err, lobby.ID)
	}
	return nil
}

func (s *LobbyService) mapWriteError(err error, lobbyID uint) error {
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		return ErrConcurrentUpdate
	case errors.Is(err, repository.ErrNotFound):
		return ErrLobbyNotFound
	default:
		logrus.WithError(err).WithField("lobby_id", lobbyID).Error("Lobby write failed")
		return ErrInternalServer
	}
}

func (s *LobbyService) generateUniquePrivateKey(ctx context.Context) (string, error) {
	for i := 0; i < maxPrivateKeyTries; i++ {
		key := s.newKey()
		exists, err := s.lobbyRepo.PrivateKeyExists(ctx, key)
		if err != nil {
			return "", err
		}
		if !exists {
			return key, nil
		}
		logrus.WithField("attempt", i+1).Debug("Private key collision, regenerating")
	}
	return "", errors.New("exhausted private key attempts")
}

// leaderToken reports whether token is the lobby leader's. Empty tokens never match.
func leaderToken(lobby *models.Lobby, token string) bool {
	if token == "" || lobby.LeaderToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(lobby.LeaderToken)) == 1
}

func matchesPrivateKey(lobby *models.Lobby, key string) bool {
	if lobby.PrivateKey == nil || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(*lobby.PrivateKey)) == 1
}

// kickTargets returns the distinct current members named in ids, never the leader.
func kickTargets(lobby *models.Lobby, ids []uint) []uint {
	var targets []uint
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] || lobby.IsLeader(id) || !lobby.HasMember(id) {
			continue
		}
		seen[id] = true
		targets = append(targets, id)
	}
	return targets
}

func cloneLobby(l *models.Lobby) *models.Lobby {
	c := *l
	c.Members = append([]models.LobbyMember(nil), l.Members...)
	return &c
}

func lobbyPayload(l *models.Lobby) map[string]interface{} {
	return map[string]interface{}{
		"lobbyId":         l.ID,
		"numberOfPlayers": l.NumberOfPlayers,
		"numberOfBots":    l.NumberOfBots,
		"voiceChat":       l.VoiceChat,
		"leaderId":        l.LeaderID,
		"members":         l.MemberIDs(),
	}
}

func memberPayload(lobbyID, userID uint) map[string]interface{} {
	return map[string]interface{}{
		"lobbyId": lobbyID,
		"userId":  userID,
	}
}
