package domain

import "time"

type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username       *string    `gorm:"uniqueIndex;size:100" json:"username,omitempty"`
	FullName       *string    `gorm:"size:255" json:"full_name,omitempty"`
	HashedPassword *string    `gorm:"size:255" json:"-"`
	IsActive       bool       `gorm:"not null;default:true;index:idx_users_is_active" json:"is_active"`
	IsVerified     bool       `gorm:"not null;default:false" json:"is_verified"`
	IsSuperuser    bool       `gorm:"not null;default:false" json:"is_superuser"`
	IsExternalAuth bool       `gorm:"not null;default:false" json:"is_external_auth"`
	AvatarURL      *string    `gorm:"size:500" json:"avatar_url,omitempty"`
	Bio            *string    `gorm:"type:text" json:"bio,omitempty"`
	Phone          *string    `gorm:"size:20" json:"phone,omitempty"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	UserRoles      []UserRole `gorm:"constraint:OnDelete:CASCADE" json:"user_roles,omitempty"`
}

// CanAuthenticate reports whether the account holds a local password.
// External-auth-only users carry a nil hash and never pass password login.
func (u *User) CanAuthenticate() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}
