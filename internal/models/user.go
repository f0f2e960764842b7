package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStatus is the presence state of a user.
type UserStatus string

const (
	StatusOnline  UserStatus = "ONLINE"
	StatusOffline UserStatus = "OFFLINE"
)

// User represents a user in the system.
type User struct {
	gorm.Model
	Username     string     `gorm:"size:255;unique;not null"`
	Token        *string    `gorm:"size:64;unique"`
	Status       UserStatus `gorm:"size:20;not null;default:'OFFLINE'"`
	PasswordHash string     `gorm:"size:255;not null"`
	Birthday     *time.Time
	Score        int `gorm:"not null;default:0"`

	// Friend bookkeeping is owned by another subsystem; stored here only.
	FriendRequests []*User `gorm:"many2many:user_friend_requests;joinForeignKey:UserID;joinReferences:RequesterID"`
	Friends        []*User `gorm:"many2many:user_friends;joinForeignKey:UserID;joinReferences:FriendID"`
}

// SessionToken returns the user's token or an empty string when none is set.
func (u *User) SessionToken() string {
	if u.Token == nil {
		return ""
	}
	return *u.Token
}
