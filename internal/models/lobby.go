package models

import "time"

// Lobby represents a game lobby where users can gather.
// Members reference users by id only; user records live in the users table.
type Lobby struct {
	ID              uint `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Name            string `gorm:"size:255;not null"`
	NumberOfPlayers int    `gorm:"not null"`
	VoiceChat       bool   `gorm:"not null;default:false"`
	LeaderID        uint   `gorm:"not null;index"`
	LeaderToken     string `gorm:"size:64;not null"`
	NumberOfBots    *int
	LobbyScore      *int64
	IsPrivate       bool    `gorm:"not null;default:false;index"`
	PrivateKey      *string `gorm:"size:64;uniqueIndex"`
	Version         uint    `gorm:"not null;default:1"`

	Members []LobbyMember `gorm:"foreignKey:LobbyID;constraint:OnDelete:CASCADE"`
}

// LobbyMember is one entry of a lobby's membership set.
type LobbyMember struct {
	LobbyID  uint `gorm:"primaryKey"`
	UserID   uint `gorm:"primaryKey;index"`
	JoinedAt time.Time
}

// HasMember reports whether userID is in the lobby.
func (l *Lobby) HasMember(userID uint) bool {
	for _, m := range l.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// AddMember inserts userID into the membership set. It returns false if the
// user was already a member.
func (l *Lobby) AddMember(userID uint) bool {
	if l.HasMember(userID) {
		return false
	}
	l.Members = append(l.Members, LobbyMember{
		LobbyID:  l.ID,
		UserID:   userID,
		JoinedAt: time.Now(),
	})
	return true
}

// RemoveMember drops userID from the membership set. It returns false if the
// user was not a member.
func (l *Lobby) RemoveMember(userID uint) bool {
	for i, m := range l.Members {
		if m.UserID == userID {
			l.Members = append(l.Members[:i], l.Members[i+1:]...)
			return true
		}
	}
	return false
}

// MemberIDs returns the member user ids in join order.
func (l *Lobby) MemberIDs() []uint {
	ids := make([]uint, 0, len(l.Members))
	for _, m := range l.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// IsLeader reports whether userID created (or inherited) the lobby.
func (l *Lobby) IsLeader(userID uint) bool {
	return l.LeaderID == userID
}

// Bots returns the configured bot count, zero when unset.
func (l *Lobby) Bots() int {
	if l.NumberOfBots == nil {
		return 0
	}
	return *l.NumberOfBots
}

// OpenSeats is the number of seats neither taken by members nor reserved for bots.
func (l *Lobby) OpenSeats() int {
	seats := l.NumberOfPlayers - len(l.Members) - l.Bots()
	if seats < 0 {
		return 0
	}
	return seats
}
