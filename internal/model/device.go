package model

import "time"

// Supported device platforms.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// DeviceToken maps a user to a push token for one platform.
// At most one token is active per (user, platform); the registry enforces
// this on registration, and the delivery engine flips Active to false on
// any delivery failure.
type DeviceToken struct {
	ID        int       `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"token"`
	Platform  string    `db:"platform" json:"platform"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ValidPlatform reports whether p is a platform the registry accepts.
func ValidPlatform(p string) bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// Subscription is a row of the external reaction store, visible to the
// pipeline only when kind is NOTIFY and the row is not soft-deleted.
type Subscription struct {
	UserID   string `db:"user_id" json:"user_id"`
	ArtistID string `db:"artist_id" json:"artist_id"`
}
