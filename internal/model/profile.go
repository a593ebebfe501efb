package model

import (
	"time"
)

const (
	// AnonymousChef is shown for recipes whose author has no profile.
	AnonymousChef = "Anonymous Chef"
	// UnknownChef is shown when the author lookup itself failed.
	UnknownChef = "Unknown Chef"
)

// Profile is the user-facing display identity. ID matches the authenticated user identity.
type Profile struct {
	ID        string    `gorm:"type:varchar(191);primaryKey" json:"id" bson:"_id"`
	Username  string    `gorm:"size:100;not null" json:"username" bson:"username"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"-" bson:"created_at"`
}

// PlaceholderProfile returns a synthesized profile for userID with the given display name.
func PlaceholderProfile(userID, username string) *Profile {
	return &Profile{ID: userID, Username: username}
}

// User is a local email/password identity.
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id" bson:"_id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email" bson:"email"`
	PasswordHash string    `gorm:"not null" json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
