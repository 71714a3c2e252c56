package domain

import "time"

// OAuthAccount links a user to an external identity provider. Provider
// flows are out of scope; the table exists so external-auth users keep
// their linkage when those flows land.
type OAuthAccount struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	Provider         string     `gorm:"size:50;not null;uniqueIndex:uq_oauth_provider_user" json:"provider"`
	ProviderUserID   string     `gorm:"size:255;not null;uniqueIndex:uq_oauth_provider_user" json:"provider_user_id"`
	ProviderEmail    *string    `gorm:"size:255" json:"provider_email,omitempty"`
	ProviderUsername *string    `gorm:"size:255" json:"provider_username,omitempty"`
	AccessToken      *string    `gorm:"type:text" json:"-"`
	RefreshToken     *string    `gorm:"type:text" json:"-"`
	TokenExpiresAt   *time.Time `json:"token_expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
